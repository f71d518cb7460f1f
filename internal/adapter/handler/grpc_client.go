package handler

import (
	"context"

	"google.golang.org/grpc"
)

// CartClient calls the cart RPC service using the json content subtype.
type CartClient struct {
	cc grpc.ClientConnInterface
}

func NewCartClient(cc grpc.ClientConnInterface) *CartClient {
	return &CartClient{cc: cc}
}

func (c *CartClient) AddProduct(ctx context.Context, in *AddProductRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return c.invoke(ctx, "AddProduct", in, opts)
}

func (c *CartClient) RemoveProduct(ctx context.Context, in *RemoveProductRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return c.invoke(ctx, "RemoveProduct", in, opts)
}

func (c *CartClient) UpdateProductAmount(ctx context.Context, in *UpdateProductAmountRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return c.invoke(ctx, "UpdateProductAmount", in, opts)
}

func (c *CartClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return c.invoke(ctx, "GetCart", in, opts)
}

func (c *CartClient) invoke(ctx context.Context, method string, in any, opts []grpc.CallOption) (*CartResponse, error) {
	out := new(CartResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodec{}.Name())}, opts...)
	if err := c.cc.Invoke(ctx, "/"+CartServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
