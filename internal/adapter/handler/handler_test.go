package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/inventoryapi"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/notify"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

type stack struct {
	inventory *service.InventoryService
	cart      *service.CartService
	slot      *storage.MemoryCartStorage
	notifier  *notify.Recorder
}

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.Out = io.Discard
	return logrus.NewEntry(log)
}

// newStack wires a cart service to a real inventory HTTP server backed by memory.
func newStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()

	repo := storage.NewMemoryInventory()
	inventory := service.NewInventoryService(repo, repo, quietLogger())
	err := inventory.Seed(ctx,
		[]domain.Product{
			{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: decimal.RequireFromString("179.90"), Image: "https://example.com/1.jpg"},
			{ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: decimal.RequireFromString("139.90"), Image: "https://example.com/2.jpg"},
			{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: decimal.RequireFromString("219.90"), Image: "https://example.com/3.jpg"},
		},
		[]domain.Stock{{ID: 1, Amount: 3}, {ID: 2, Amount: 0}, {ID: 3, Amount: 5}},
	)
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewInventoryHTTPHandler(inventory).Register(mux)
	srv := httptest.NewServer(Instrument("inventory", mux, quietLogger()))
	t.Cleanup(srv.Close)

	client, err := inventoryapi.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	s := &stack{
		inventory: inventory,
		slot:      storage.NewMemoryCartStorage(),
		notifier:  notify.NewRecorder(),
	}
	s.cart, err = service.NewCartService(ctx, client, s.slot, s.notifier, service.WithLogger(quietLogger()))
	require.NoError(t, err)

	return s
}

func (s *stack) stockOf(t *testing.T, productID int64) int {
	t.Helper()
	st, err := s.inventory.Stock(context.Background(), productID)
	require.NoError(t, err)
	return st.Amount
}
