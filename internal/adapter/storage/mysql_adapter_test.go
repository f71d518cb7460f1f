package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/rocketshoes?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func seedProduct(t *testing.T, adapter *MySQLAdapter, id int64, stock int) {
	t.Helper()

	err := adapter.UpsertProduct(context.Background(), domain.Product{
		ID:    id,
		Title: "Tênis de Caminhada Leve Confortável",
		Price: decimal.RequireFromString("179.90"),
		Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg",
	}, stock)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
}

func TestGetProduct(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	seedProduct(t, adapter, 7001, 10)

	p, err := adapter.GetProduct(ctx, 7001)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if p == nil {
		t.Fatal("expected product, got nil")
	}
	if p.Title != "Tênis de Caminhada Leve Confortável" {
		t.Errorf("unexpected title %q", p.Title)
	}
	if !p.Price.Equal(decimal.RequireFromString("179.90")) {
		t.Errorf("expected price 179.90, got %s", p.Price)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	p, err := NewMySQLAdapter(db).GetProduct(context.Background(), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("expected nil for nonexistent product")
	}
}

func TestGetInventory(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	seedProduct(t, adapter, 7002, 50)

	inv, err := adapter.GetInventory(ctx, 7002)
	if err != nil {
		t.Fatalf("GetInventory failed: %v", err)
	}
	if inv == nil {
		t.Fatal("expected inventory, got nil")
	}
	if inv.ProductID != 7002 {
		t.Errorf("expected product_id 7002, got %d", inv.ProductID)
	}
	if inv.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", inv.Quantity)
	}
}

func TestGetInventory_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	inv, err := NewMySQLAdapter(db).GetInventory(context.Background(), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv != nil {
		t.Error("expected nil for nonexistent product")
	}
}

func TestUpdateInventory_OptimisticLock(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	seedProduct(t, adapter, 7003, 100)

	inv, err := adapter.GetInventory(ctx, 7003)
	if err != nil || inv == nil {
		t.Fatalf("GetInventory failed: %v", err)
	}
	version := inv.Version

	// Update with correct version
	inv.Quantity = 90
	if err := adapter.UpdateInventory(ctx, *inv); err != nil {
		t.Fatalf("UpdateInventory failed: %v", err)
	}

	after, _ := adapter.GetInventory(ctx, 7003)
	if after.Version != version+1 {
		t.Errorf("expected version %d, got %d", version+1, after.Version)
	}
	if after.Quantity != 90 {
		t.Errorf("expected stock 90, got %d", after.Quantity)
	}

	// Try update with stale version
	inv.Quantity = 80
	err = adapter.UpdateInventory(ctx, *inv)
	if err != domain.ErrOptimisticLock {
		t.Errorf("expected ErrOptimisticLock, got: %v", err)
	}
}

func TestUpsertProduct_BumpsVersion(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)
	seedProduct(t, adapter, 7004, 3)
	before, _ := adapter.GetInventory(ctx, 7004)

	seedProduct(t, adapter, 7004, 8)
	after, _ := adapter.GetInventory(ctx, 7004)

	if after.Quantity != 8 {
		t.Errorf("expected stock 8, got %d", after.Quantity)
	}
	if after.Version <= before.Version {
		t.Errorf("expected version to move past %d, got %d", before.Version, after.Version)
	}
}
