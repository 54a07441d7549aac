//go:build integration

package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestLimiter_Integration_SharedWindow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	cfg := Config{Redis: redisClient, WindowLimit: 2, WindowSize: time.Second}

	// Two limiters model two processes sharing one budget.
	a := New(cfg, logger)
	b := New(cfg, logger)
	ctx := context.Background()

	// Align to a fresh window so the budget is not split across a boundary.
	time.Sleep(time.Until(time.Now().Truncate(time.Second).Add(time.Second)))

	start := time.Now()
	if err := a.Wait(ctx); err != nil {
		t.Fatalf("a.Wait() error = %v", err)
	}
	if err := b.Wait(ctx); err != nil {
		t.Fatalf("b.Wait() error = %v", err)
	}
	if err := a.Wait(ctx); err != nil {
		t.Fatalf("a.Wait() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("third request passed after %v, want it delayed to the next window", elapsed)
	}

	state, err := a.Tracker().GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Limit != 2 {
		t.Errorf("Limit = %d, want 2", state.Limit)
	}
}

func TestLimiter_Integration_ContextCancelledWhileWaiting(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	l := New(Config{Redis: redisClient, WindowLimit: 1, WindowSize: time.Hour}, logger)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("Wait() = nil, want context error while window is exhausted")
	}
}
