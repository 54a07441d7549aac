package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	windowUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "artic_rate_limit_window_used",
		Help: "Requests counted in the current shared rate limit window",
	})

	rateLimitWaitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_rate_limit_waits_total",
		Help: "Total number of requests delayed by the rate limiter, by layer",
	}, []string{"layer"})
)

// Tracker counts requests in a fixed window stored in Redis.
type Tracker struct {
	redis  *redis.Client
	limit  int
	size   time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewTracker creates a shared window tracker. Non-positive limit or size
// fall back to the defaults.
func NewTracker(redisClient *redis.Client, limit int, size time.Duration, logger zerolog.Logger) *Tracker {
	if limit <= 0 {
		limit = DefaultWindowLimit
	}
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Tracker{
		redis:  redisClient,
		limit:  limit,
		size:   size,
		logger: logger,
		now:    time.Now,
	}
}

// GetState reads the current window without counting a request.
func (t *Tracker) GetState(ctx context.Context) (*WindowState, error) {
	start := windowStart(t.now(), t.size)

	used, err := t.redis.Get(ctx, windowKey(start)).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get window count: %w", err)
	}

	return &WindowState{
		Used:    used,
		Limit:   t.limit,
		ResetAt: start.Add(t.size),
	}, nil
}

// Acquire counts one request against the current window. It returns zero when
// the request may proceed, otherwise the time to wait before trying again.
func (t *Tracker) Acquire(ctx context.Context) (time.Duration, error) {
	start := windowStart(t.now(), t.size)
	key := windowKey(start)

	var incr *redis.IntCmd
	_, err := t.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, 2*t.size)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count request in redis window: %w", err)
	}

	state := &WindowState{
		Used:    int(incr.Val()),
		Limit:   t.limit,
		ResetAt: start.Add(t.size),
	}
	windowUsed.Set(float64(state.Used))

	if state.Used > state.Limit {
		wait := state.ResetAt.Sub(t.now())
		if wait < 0 {
			wait = 0
		}
		t.logger.Warn().
			Int("used", state.Used).
			Int("limit", state.Limit).
			Dur("wait", wait).
			Msg("Shared request window exhausted")
		return wait, nil
	}

	t.logger.Debug().
		Int("used", state.Used).
		Int("remaining", state.Remaining()).
		Msg("Request counted in shared window")

	return 0, nil
}
