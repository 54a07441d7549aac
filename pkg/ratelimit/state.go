// Package ratelimit paces requests to the artwork listing endpoint.
//
// Two layers are available. A local token bucket (golang.org/x/time/rate)
// spaces requests issued by this process. An optional fixed window kept in
// Redis shares one request budget between every process pointed at the same
// Redis, which keeps a fleet of proxies under the public API's per-IP quota.
package ratelimit

import (
	"fmt"
	"time"
)

// Redis key prefix for the shared request window. The window start (unix
// seconds) is appended.
const RedisKeyWindowPrefix = "artic:rate_limit:window"

// Defaults follow the public API guidance of 60 requests per minute.
const (
	DefaultWindowLimit = 60
	DefaultWindowSize  = time.Minute
)

// WindowState is a snapshot of the shared request window.
type WindowState struct {
	// Used is the number of requests counted in the current window.
	Used int `json:"used"`

	// Limit is the request budget per window.
	Limit int `json:"limit"`

	// ResetAt is when the current window ends.
	ResetAt time.Time `json:"reset_at"`
}

// Remaining returns how many requests are still allowed in the window.
func (s *WindowState) Remaining() int {
	if s.Used >= s.Limit {
		return 0
	}
	return s.Limit - s.Used
}

// Exhausted reports whether the budget for the window is spent.
func (s *WindowState) Exhausted() bool {
	return s.Used >= s.Limit
}

// TimeUntilReset returns the duration until the window ends.
// Returns 0 if the window has already ended.
func (s *WindowState) TimeUntilReset() time.Duration {
	d := time.Until(s.ResetAt)
	if d < 0 {
		return 0
	}
	return d
}

// windowStart returns the start of the window containing t.
func windowStart(t time.Time, size time.Duration) time.Time {
	return t.Truncate(size)
}

// windowKey returns the Redis key for the window starting at start.
func windowKey(start time.Time) string {
	return fmt.Sprintf("%s:%d", RedisKeyWindowPrefix, start.Unix())
}
