package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/port"
)

var (
	ErrOutOfStock       = errors.New("requested amount out of stock")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// Messages shown to the shopper, one per failed operation.
const (
	MsgOutOfStock   = "Quantidade solicitada fora de estoque"
	MsgAddFailed    = "Erro na adição do produto"
	MsgRemoveFailed = "Erro na remoção do produto"
	MsgUpdateFailed = "Erro na alteração de quantidade do produto"
)

const compensationTimeout = 5 * time.Second

const (
	opAddProduct     = "AddProduct"
	opRemoveProduct  = "RemoveProduct"
	opUpdateQuantity = "UpdateProductAmount"
)

// OperationError is returned by every failed cart operation. Message is the
// text that was sent to the notifier.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the shopper-facing message carried by err, or an empty string.
func UserMessage(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return ""
}

type UpdateProductAmount struct {
	ProductID int64 `json:"product_id"`
	Amount    int   `json:"amount"`
}

type CartOption func(*CartService)

// WithStockRelease controls whether removing a line gives its units back to the inventory.
func WithStockRelease(release bool) CartOption {
	return func(s *CartService) {
		s.releaseOnRemove = release
	}
}

func WithLogger(log *logrus.Entry) CartOption {
	return func(s *CartService) {
		s.log = log
	}
}

func WithTracer(tracer trace.Tracer) CartOption {
	return func(s *CartService) {
		s.tracer = tracer
	}
}

// CartService holds one shopper's cart. Operations are serialized: each one
// runs its remote calls, local mutation and persistence under the same lock.
type CartService struct {
	mu   sync.Mutex
	cart domain.Cart

	inventory port.InventoryClient
	storage   port.CartStorage
	notifier  port.Notifier

	releaseOnRemove bool
	log             *logrus.Entry
	tracer          trace.Tracer
}

func NewCartService(ctx context.Context, inventory port.InventoryClient, storage port.CartStorage, notifier port.Notifier, opts ...CartOption) (*CartService, error) {
	s := &CartService{
		inventory:       inventory,
		storage:         storage,
		notifier:        notifier,
		releaseOnRemove: true,
		log:             logrus.NewEntry(logrus.StandardLogger()),
		tracer:          otel.Tracer("cart"),
	}
	for _, opt := range opts {
		opt(s)
	}

	cart, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	s.cart = cart.Clone()

	return s, nil
}

func (s *CartService) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *CartService) Summary() domain.Summary {
	return s.Cart().Summary()
}

// AddProduct reserves one unit of the product and adds it to the cart. The
// returned summary is the cart as this call left it.
func (s *CartService) AddProduct(ctx context.Context, productID int64) (domain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, opAddProduct, trace.WithAttributes(attribute.Int64("product.id", productID)))

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.addProduct(ctx, productID)
	endSpan(span, err)
	return s.cart.Summary(), err
}

func (s *CartService) RemoveProduct(ctx context.Context, productID int64) (domain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, opRemoveProduct, trace.WithAttributes(attribute.Int64("product.id", productID)))

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.removeProduct(ctx, productID)
	endSpan(span, err)
	return s.cart.Summary(), err
}

func (s *CartService) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) (domain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, opUpdateQuantity, trace.WithAttributes(
		attribute.Int64("product.id", req.ProductID),
		attribute.Int("product.amount", req.Amount),
	))

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.updateProductAmount(ctx, req)
	endSpan(span, err)
	return s.cart.Summary(), err
}

// The methods below run with s.mu held.

func (s *CartService) addProduct(ctx context.Context, productID int64) error {
	product, err := s.inventory.GetProduct(ctx, productID)
	if err != nil {
		return s.fail(ctx, opAddProduct, MsgAddFailed, fmt.Errorf("get product: %w", err))
	}

	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return s.fail(ctx, opAddProduct, MsgAddFailed, fmt.Errorf("get stock: %w", err))
	}

	if stock.Amount < 1 {
		return s.fail(ctx, opAddProduct, MsgOutOfStock, ErrOutOfStock)
	}

	if err := s.inventory.UpdateStock(ctx, productID, stock.Amount-1); err != nil {
		return s.fail(ctx, opAddProduct, MsgAddFailed, fmt.Errorf("reserve stock: %w", err))
	}

	next := s.cart.WithUnit(product)
	if err := s.storage.Save(ctx, next); err != nil {
		s.restoreStock(ctx, productID, stock.Amount)
		return s.fail(ctx, opAddProduct, MsgAddFailed, fmt.Errorf("save cart: %w", err))
	}

	s.cart = next
	s.log.WithFields(logrus.Fields{"product_id": productID, "stock_left": stock.Amount - 1}).Debug("product added to cart")

	return nil
}

func (s *CartService) removeProduct(ctx context.Context, productID int64) error {
	line, ok := s.cart.Get(productID)
	if !ok {
		return s.fail(ctx, opRemoveProduct, MsgRemoveFailed, ErrProductNotInCart)
	}

	next := s.cart.Without(productID)
	if err := s.storage.Save(ctx, next); err != nil {
		return s.fail(ctx, opRemoveProduct, MsgRemoveFailed, fmt.Errorf("save cart: %w", err))
	}
	s.cart = next

	if s.releaseOnRemove {
		s.releaseStock(ctx, productID, line.Amount)
	}

	s.log.WithField("product_id", productID).Debug("product removed from cart")
	return nil
}

func (s *CartService) updateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	if req.Amount < 1 {
		return s.fail(ctx, opUpdateQuantity, MsgUpdateFailed, ErrInvalidAmount)
	}

	line, ok := s.cart.Get(req.ProductID)
	if !ok {
		return s.fail(ctx, opUpdateQuantity, MsgUpdateFailed, ErrProductNotInCart)
	}

	delta := req.Amount - line.Amount
	if delta == 0 {
		return nil
	}

	stock, err := s.inventory.GetStock(ctx, req.ProductID)
	if err != nil {
		return s.fail(ctx, opUpdateQuantity, MsgUpdateFailed, fmt.Errorf("get stock: %w", err))
	}

	if delta > stock.Amount {
		return s.fail(ctx, opUpdateQuantity, MsgOutOfStock, ErrOutOfStock)
	}

	if err := s.inventory.UpdateStock(ctx, req.ProductID, stock.Amount-delta); err != nil {
		return s.fail(ctx, opUpdateQuantity, MsgUpdateFailed, fmt.Errorf("update stock: %w", err))
	}

	next := s.cart.WithAmount(req.ProductID, req.Amount)
	if err := s.storage.Save(ctx, next); err != nil {
		s.restoreStock(ctx, req.ProductID, stock.Amount)
		return s.fail(ctx, opUpdateQuantity, MsgUpdateFailed, fmt.Errorf("save cart: %w", err))
	}

	s.cart = next
	s.log.WithFields(logrus.Fields{"product_id": req.ProductID, "amount": req.Amount}).Debug("cart amount updated")

	return nil
}

func (s *CartService) fail(ctx context.Context, op, message string, err error) error {
	s.notifier.Error(ctx, message)
	s.log.WithError(err).WithField("op", op).Warn("cart operation failed")
	return &OperationError{Op: op, Message: message, Err: err}
}

// compensationContext keeps the caller's values but not its cancellation: a
// stock write that undoes or releases a reservation must outlive the request.
func compensationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
}

// restoreStock undoes a stock write whose cart change could not be persisted.
func (s *CartService) restoreStock(ctx context.Context, productID int64, amount int) {
	ctx, cancel := compensationContext(ctx)
	defer cancel()

	if err := s.inventory.UpdateStock(ctx, productID, amount); err != nil {
		s.log.WithError(err).WithField("product_id", productID).Error("CRITICAL stock rollback failed")
		return
	}
	s.log.WithField("product_id", productID).Info("rolled back stock")
}

func (s *CartService) releaseStock(ctx context.Context, productID int64, units int) {
	ctx, cancel := compensationContext(ctx)
	defer cancel()

	stock, err := s.inventory.GetStock(ctx, productID)
	if err == nil {
		err = s.inventory.UpdateStock(ctx, productID, stock.Amount+units)
	}
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"product_id": productID, "units": units}).Error("failed to release stock")
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
