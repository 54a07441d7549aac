package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestRedis connects to a local Redis, skipping when none is running.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewTracker_Defaults(t *testing.T) {
	tr := NewTracker(nil, 0, 0, zerolog.Nop())
	if tr.limit != DefaultWindowLimit {
		t.Errorf("limit = %d, want %d", tr.limit, DefaultWindowLimit)
	}
	if tr.size != DefaultWindowSize {
		t.Errorf("size = %v, want %v", tr.size, DefaultWindowSize)
	}
}

func TestTracker_Acquire(t *testing.T) {
	redisClient := setupTestRedis(t)
	tr := NewTracker(redisClient, 3, time.Hour, zerolog.Nop())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		wait, err := tr.Acquire(ctx)
		if err != nil {
			t.Fatalf("Acquire() #%d error = %v", i, err)
		}
		if wait != 0 {
			t.Fatalf("Acquire() #%d wait = %v, want 0", i, wait)
		}
	}

	wait, err := tr.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if wait <= 0 {
		t.Errorf("Acquire() over budget wait = %v, want > 0", wait)
	}

	state, err := tr.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Used != 4 {
		t.Errorf("Used = %d, want 4", state.Used)
	}
	if !state.Exhausted() {
		t.Error("window should be exhausted")
	}
}

func TestTracker_GetState_Empty(t *testing.T) {
	redisClient := setupTestRedis(t)
	tr := NewTracker(redisClient, 10, time.Minute, zerolog.Nop())

	state, err := tr.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Used != 0 || state.Remaining() != 10 {
		t.Errorf("state = %+v, want empty window with 10 remaining", state)
	}
}
