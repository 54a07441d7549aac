package ratelimit

import (
	"testing"
	"time"
)

func TestWindowState_Remaining(t *testing.T) {
	tests := []struct {
		name          string
		used          int
		limit         int
		wantRemaining int
		wantExhausted bool
	}{
		{name: "fresh window", used: 0, limit: 60, wantRemaining: 60, wantExhausted: false},
		{name: "partly used", used: 45, limit: 60, wantRemaining: 15, wantExhausted: false},
		{name: "at limit", used: 60, limit: 60, wantRemaining: 0, wantExhausted: true},
		{name: "over limit", used: 75, limit: 60, wantRemaining: 0, wantExhausted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &WindowState{Used: tt.used, Limit: tt.limit}
			if got := s.Remaining(); got != tt.wantRemaining {
				t.Errorf("Remaining() = %d, want %d", got, tt.wantRemaining)
			}
			if got := s.Exhausted(); got != tt.wantExhausted {
				t.Errorf("Exhausted() = %v, want %v", got, tt.wantExhausted)
			}
		})
	}
}

func TestWindowState_TimeUntilReset(t *testing.T) {
	future := &WindowState{ResetAt: time.Now().Add(30 * time.Second)}
	if d := future.TimeUntilReset(); d < 29*time.Second || d > 31*time.Second {
		t.Errorf("TimeUntilReset() = %v, want ~30s", d)
	}

	past := &WindowState{ResetAt: time.Now().Add(-time.Second)}
	if d := past.TimeUntilReset(); d != 0 {
		t.Errorf("TimeUntilReset() = %v, want 0", d)
	}
}

func TestWindowKey(t *testing.T) {
	ts := time.Unix(1_700_000_042, 0)
	start := windowStart(ts, time.Minute)

	if start.Unix()%60 != 0 {
		t.Errorf("windowStart() = %d, not aligned to the minute", start.Unix())
	}
	if got, want := windowKey(start), "artic:rate_limit:window:1700000040"; got != want {
		t.Errorf("windowKey() = %q, want %q", got, want)
	}
}
