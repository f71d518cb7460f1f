package storage

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	redisOnce      sync.Once
	redisContainer testcontainers.Container
	containerAddr  string
	containerError error
)

func TestMain(m *testing.M) {
	code := m.Run()

	if err := testcontainers.TerminateContainer(redisContainer); err != nil {
		log.Printf("terminate redis container: %v", err)
	}

	os.Exit(code)
}

// containerRedisAddr starts one redis container shared by the whole package.
func containerRedisAddr() (string, error) {
	redisOnce.Do(func() {
		ctx := context.Background()
		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7.4-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForListeningPort("6379/tcp"),
			},
			Started: true,
		})
		redisContainer = c
		if err != nil {
			containerError = err
			return
		}
		containerAddr, containerError = c.Endpoint(ctx, "")
	})
	return containerAddr, containerError
}

func getRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		var err error
		addr, err = containerRedisAddr()
		if err != nil {
			t.Skipf("Redis not available: %v", err)
		}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client
}
