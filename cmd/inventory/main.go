package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/handler"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/config"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
	"github.com/rl1809/rocketshoes-cart/internal/logger"
	"github.com/rl1809/rocketshoes-cart/internal/port"
	"github.com/rl1809/rocketshoes-cart/internal/telemetry"
)

const serviceName = "inventory"

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.InitTracerProvider(ctx, telemetry.Options{
		Service:      serviceName,
		Version:      "v1.0.0",
		OTLPEndpoint: cfg.OTLPEndpoint,
		Stdout:       cfg.TraceStdout,
	})
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	db, cache, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to open inventory stores: %v", err)
	}

	inventoryService := service.NewInventoryService(db, cache, log.WithField("component", "inventory"))

	if cfg.SeedFile != "" {
		seed, err := storage.ReadSeedFile(cfg.SeedFile)
		if err != nil {
			log.Fatalf("failed to read seed: %v", err)
		}
		if err := inventoryService.Seed(ctx, seed.Products, seed.Stock); err != nil {
			log.Fatalf("failed to seed inventory: %v", err)
		}
	}

	mux := http.NewServeMux()
	handler.NewInventoryHTTPHandler(inventoryService).Register(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.InventoryHTTPPort),
		Handler:           handler.Instrument(serviceName, mux, log.WithField("component", "http")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP shutdown error: %v", err)
	}
	log.Info("HTTP server stopped")

	closeStores()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Errorf("tracer shutdown error: %v", err)
	}
	log.Info("connections closed")
}

func openStores(ctx context.Context, cfg config.Config, log *logrus.Entry) (port.DatabaseRepository, port.CacheRepository, func(), error) {
	if cfg.InventoryStore == config.InventoryStoreMemory {
		log.Warn("inventory is kept in memory, seed it with SEED_FILE")
		mem := storage.NewMemoryInventory()
		return mem, mem, func() {}, nil
	}

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("ping mysql: %w", err)
	}
	log.Info("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		db.Close()
		rdb.Close()
		return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Info("connected to redis")

	closeAll := func() {
		rdb.Close()
		db.Close()
	}
	return storage.NewMySQLAdapter(db), storage.NewRedisAdapter(rdb), closeAll, nil
}
