package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config holds limiter configuration.
type Config struct {
	// RequestsPerSecond for the local token bucket. 0 disables local pacing.
	RequestsPerSecond float64

	// Burst of the local token bucket (default 1).
	Burst int

	// Redis enables the shared window when set.
	Redis *redis.Client

	// WindowLimit and WindowSize define the shared window budget.
	WindowLimit int
	WindowSize  time.Duration
}

// Limiter gates outgoing requests. A nil *Limiter allows everything.
type Limiter struct {
	local   *rate.Limiter
	tracker *Tracker
	logger  zerolog.Logger
}

// New creates a limiter. It returns nil when neither layer is configured.
func New(cfg Config, logger zerolog.Logger) *Limiter {
	if cfg.RequestsPerSecond <= 0 && cfg.Redis == nil {
		return nil
	}

	l := &Limiter{logger: logger}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		l.local = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if cfg.Redis != nil {
		l.tracker = NewTracker(cfg.Redis, cfg.WindowLimit, cfg.WindowSize, logger)
	}
	return l
}

// Tracker returns the shared window tracker, or nil.
func (l *Limiter) Tracker() *Tracker {
	if l == nil {
		return nil
	}
	return l.tracker
}

// Wait blocks until a request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	if l.local != nil {
		if l.local.Tokens() < 1 {
			rateLimitWaitsTotal.WithLabelValues("local").Inc()
		}
		if err := l.local.Wait(ctx); err != nil {
			return fmt.Errorf("local rate limit: %w", err)
		}
	}

	if l.tracker == nil {
		return nil
	}

	for {
		wait, err := l.tracker.Acquire(ctx)
		if err != nil {
			// Redis outage must not stop browsing; fall back to local pacing.
			l.logger.Warn().Err(err).Msg("Shared rate limit unavailable")
			return nil
		}
		if wait == 0 {
			return nil
		}

		rateLimitWaitsTotal.WithLabelValues("redis").Inc()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("shared rate limit: %w", ctx.Err())
		case <-timer.C:
		}
	}
}
