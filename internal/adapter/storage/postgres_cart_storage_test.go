package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../../../migrations/postgres/01_cart_slots.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

type postgresCartStorageSuite struct {
	suite.Suite

	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestPostgresCartStorageSuite(t *testing.T) {
	suite.Run(t, new(postgresCartStorageSuite))
}

// before all tests in the suite
func (suite *postgresCartStorageSuite) SetupSuite() {
	ctx := suite.T().Context()

	container, connStr, err := startPostgres(ctx)
	if err != nil {
		suite.T().Skipf("Postgres not available: %v", err)
	}
	suite.container = container

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *postgresCartStorageSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *postgresCartStorageSuite) TestLoadEmptySlot() {
	t := suite.T()

	cart, err := storage.NewPostgresCartStorage(suite.pool, gofakeit.UUID()).Load(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func (suite *postgresCartStorageSuite) TestSaveLoad() {
	tests := []struct {
		name string
		cart domain.Cart
	}{
		{
			name: "save cart with items: ok",
			cart: domain.Cart{randomProduct(), randomProduct()},
		},
		{
			name: "save empty cart: ok",
			cart: domain.Cart{},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			slot := storage.NewPostgresCartStorage(suite.pool, gofakeit.UUID())

			require.NoError(t, slot.Save(ctx, tt.cart))

			loaded, err := slot.Load(ctx)
			require.NoError(t, err)
			assertCart(t, tt.cart, loaded)
		})
	}
}

func (suite *postgresCartStorageSuite) TestSaveOverwrites() {
	t := suite.T()
	ctx := t.Context()
	slot := storage.NewPostgresCartStorage(suite.pool, gofakeit.UUID())

	first := domain.Cart{randomProduct()}
	second := domain.Cart{randomProduct(), randomProduct()}

	require.NoError(t, slot.Save(ctx, first))
	require.NoError(t, slot.Save(ctx, second))

	loaded, err := slot.Load(ctx)
	require.NoError(t, err)
	assertCart(t, second, loaded)

	var rows int
	require.NoError(t, suite.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_slots`).Scan(&rows))
	assert.GreaterOrEqual(t, rows, 1)
}

func (suite *postgresCartStorageSuite) TestSlotsAreIsolated() {
	t := suite.T()
	ctx := t.Context()
	a := storage.NewPostgresCartStorage(suite.pool, gofakeit.UUID())
	b := storage.NewPostgresCartStorage(suite.pool, gofakeit.UUID())

	require.NoError(t, a.Save(ctx, domain.Cart{randomProduct()}))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:     gofakeit.Int64(),
		Title:  gofakeit.ProductName(),
		Price:  decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Image:  gofakeit.URL(),
		Amount: gofakeit.IntRange(1, 5),
	}
}

func assertCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	diff := cmp.Diff(expected, actual, decimalComparer)
	assert.Empty(t, diff)
}
