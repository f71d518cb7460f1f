package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/handler"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/inventoryapi"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/notify"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/config"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
	"github.com/rl1809/rocketshoes-cart/internal/logger"
	"github.com/rl1809/rocketshoes-cart/internal/port"
	"github.com/rl1809/rocketshoes-cart/internal/telemetry"
)

const serviceName = "cart"

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

	// Initialize cart slot
	cartStorage, closeStorage, err := openCartStorage(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to open cart storage: %v", err)
	}

	// Initialize inventory client
	inventory, err := inventoryapi.NewClient(cfg.InventoryURL, cfg.InventoryTimeout)
	if err != nil {
		log.Fatalf("failed to create inventory client: %v", err)
	}

	// Initialize service
	cartService, err := service.NewCartService(ctx, inventory, cartStorage,
		notify.NewLogger(log.WithField("component", "toast")),
		service.WithStockRelease(cfg.ReleaseStockOnRemove),
		service.WithLogger(log.WithField("component", "cart")),
	)
	if err != nil {
		log.Fatalf("failed to load cart: %v", err)
	}
	log.WithField("lines", len(cartService.Cart())).Info("cart loaded")

	// Initialize gRPC server
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	handler.RegisterCartServer(grpcServer, handler.NewGRPCHandler(cartService))
	healthSvc := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthSvc)
	healthSvc.SetServingStatus(handler.CartServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		log.Infof("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Errorf("gRPC server error: %v", err)
		}
	}()

	// Initialize HTTP server
	mux := http.NewServeMux()
	handler.NewHTTPHandler(cartService).Register(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
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
	healthSvc.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP shutdown error: %v", err)
	}
	log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	closeStorage()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Errorf("tracer shutdown error: %v", err)
	}
	log.Info("connections closed")
}

func openCartStorage(ctx context.Context, cfg config.Config, log *logrus.Entry) (port.CartStorage, func(), error) {
	switch cfg.CartStore {
	case config.CartStoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Infof("connected to redis, cart key %q", cfg.CartKey)
		return storage.NewRedisCartStorage(rdb, cfg.CartKey), func() { rdb.Close() }, nil

	case config.CartStorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.Infof("connected to postgres, cart key %q", cfg.CartKey)
		return storage.NewPostgresCartStorage(pool, cfg.CartKey), pool.Close, nil

	case config.CartStoreMemory:
		log.Warn("cart is kept in memory and will not survive a restart")
		return storage.NewMemoryCartStorage(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown cart store %q", cfg.CartStore)
}
