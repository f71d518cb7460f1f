package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

const CartServiceName = "storefront.cart.v1.CartService"

type AddProductRequest struct {
	ProductID int64 `json:"product_id"`
}

type RemoveProductRequest struct {
	ProductID int64 `json:"product_id"`
}

type UpdateProductAmountRequest struct {
	ProductID int64 `json:"product_id"`
	Amount    int   `json:"amount"`
}

type GetCartRequest struct{}

type CartResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Cart    domain.Summary `json:"cart"`
}

// CartServer is the server API for the cart RPC service.
type CartServer interface {
	AddProduct(context.Context, *AddProductRequest) (*CartResponse, error)
	RemoveProduct(context.Context, *RemoveProductRequest) (*CartResponse, error)
	UpdateProductAmount(context.Context, *UpdateProductAmountRequest) (*CartResponse, error)
	GetCart(context.Context, *GetCartRequest) (*CartResponse, error)
}

type GRPCHandler struct {
	cartService *service.CartService
}

func NewGRPCHandler(cartService *service.CartService) *GRPCHandler {
	return &GRPCHandler{cartService: cartService}
}

func RegisterCartServer(s grpc.ServiceRegistrar, srv CartServer) {
	s.RegisterService(&cartServiceDesc, srv)
}

func (h *GRPCHandler) AddProduct(ctx context.Context, req *AddProductRequest) (*CartResponse, error) {
	return respond(h.cartService.AddProduct(ctx, req.ProductID)), nil
}

func (h *GRPCHandler) RemoveProduct(ctx context.Context, req *RemoveProductRequest) (*CartResponse, error) {
	return respond(h.cartService.RemoveProduct(ctx, req.ProductID)), nil
}

func (h *GRPCHandler) UpdateProductAmount(ctx context.Context, req *UpdateProductAmountRequest) (*CartResponse, error) {
	return respond(h.cartService.UpdateProductAmount(ctx, service.UpdateProductAmount{
		ProductID: req.ProductID,
		Amount:    req.Amount,
	})), nil
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *GetCartRequest) (*CartResponse, error) {
	return respond(h.cartService.Summary(), nil), nil
}

// respond builds the reply from the summary the operation produced, so the
// cart it carries never includes a later caller's change.
func respond(summary domain.Summary, err error) *CartResponse {
	resp := &CartResponse{
		Success: err == nil,
		Cart:    summary,
	}

	if err != nil {
		resp.Message = service.UserMessage(err)
		if resp.Message == "" {
			resp.Message = "internal error"
		}
	}

	return resp
}

func unaryHandler[Req any](method string, call func(CartServer, context.Context, *Req) (*CartResponse, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CartServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + CartServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CartServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var cartServiceDesc = grpc.ServiceDesc{
	ServiceName: CartServiceName,
	HandlerType: (*CartServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("AddProduct", CartServer.AddProduct),
		unaryHandler("RemoveProduct", CartServer.RemoveProduct),
		unaryHandler("UpdateProductAmount", CartServer.UpdateProductAmount),
		unaryHandler("GetCart", CartServer.GetCart),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/cart/v1/cart.proto",
}
