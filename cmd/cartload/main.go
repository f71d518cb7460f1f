package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/inventoryapi"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/notify"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/config"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
	"github.com/rl1809/rocketshoes-cart/internal/logger"
)

const (
	productID     = 1
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	runID := uuid.NewString()

	entry := logger.New(logger.Options{Service: "cartload", Env: cfg.AppEnv, Level: "error"}).
		WithField("run_id", runID)

	inventory, err := inventoryapi.NewClient(cfg.InventoryURL, cfg.InventoryTimeout)
	if err != nil {
		log.Fatalf("failed to create inventory client: %v", err)
	}

	// Reset stock for the product under test
	if err := inventory.UpdateStock(ctx, productID, initialStock); err != nil {
		log.Fatalf("failed to set stock: %v", err)
	}

	recorder := notify.NewRecorder()
	notifier := notify.Fanout{recorder, notify.NewLogger(entry)}
	cartService, err := service.NewCartService(ctx, inventory, storage.NewMemoryCartStorage(), notifier,
		service.WithLogger(entry),
	)
	if err != nil {
		log.Fatalf("failed to create cart: %v", err)
	}

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := cartService.AddProduct(ctx, productID); err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	fail := failCount.Load()
	counts := recorder.Counts()

	fmt.Println("========== CART LOAD RESULTS ==========")
	fmt.Printf("Run:              %s\n", runID)
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Out of stock:     %d\n", counts[service.MsgOutOfStock])
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("=======================================")

	// Assertions
	if success == int32(initialStock) && fail == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d adds succeeded, %d failed\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, fail)
	}

	line, _ := cartService.Cart().Get(productID)
	if line.Amount == initialStock {
		fmt.Printf("PASS: Cart holds %d units\n", line.Amount)
	} else {
		fmt.Printf("FAIL: Expected %d units in cart, got %d\n", initialStock, line.Amount)
	}

	// Verify final stock on the inventory API
	finalStock, err := inventory.GetStock(ctx, productID)
	if err != nil {
		log.Fatalf("failed to read stock: %v", err)
	}
	fmt.Printf("Final Stock:      %d\n", finalStock.Amount)

	if finalStock.Amount == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", finalStock.Amount)
	}
}
