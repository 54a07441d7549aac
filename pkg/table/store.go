package table

import (
	"sync"

	"github.com/Sternrassler/artic-table/pkg/artwork"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var staleResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "artic_stale_results_total",
	Help: "Results discarded because a newer view operation had started",
}, []string{"operation"})

// Token identifies one view-updating operation. Tokens increase
// monotonically; only the latest one may commit.
type Token uint64

// Store owns the view state.
type Store struct {
	mu     sync.Mutex
	state  State
	latest Token
	logger zerolog.Logger
}

// NewStore creates an empty store with the given display page size.
func NewStore(pageSize int) *Store {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Store{
		state: State{
			Page:     1,
			PageSize: pageSize,
			Mode:     ModePage,
			Phase:    PhaseIdle,
		},
		logger: log.With().Str("component", "table-store").Logger(),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin issues the token for a new operation, superseding any in flight.
func (s *Store) Begin(op string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	s.state.Loading = true
	if op == opBulk {
		s.state.Phase = PhaseWalking
	} else if s.state.Phase == PhaseWalking {
		// A page load overrides an unfinished walk.
		s.state.Phase = PhaseIdle
	}

	s.logger.Debug().Str("operation", op).Uint64("token", uint64(s.latest)).Msg("View operation started")
	return s.latest
}

// IsCurrent reports whether tok is the latest token.
func (s *Store) IsCurrent(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tok == s.latest
}

// CommitPage applies a page load. It returns false if tok was superseded.
func (s *Store) CommitPage(tok Token, res pagination.PageResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(tok, opPage) {
		return false
	}

	s.state.Rows = res.Rows
	s.state.Total = res.Total
	if res.Total > 0 {
		s.state.Selection = s.state.Selection.Truncate(res.Total)
	}
	s.state.Page = res.Page
	s.state.PageSize = res.PageSize
	s.state.Mode = ModePage
	s.state.Loading = false
	s.state.Phase = PhaseIdle
	return true
}

// CommitBulk applies a bulk walk: the selection is replaced by the selected
// records and the display shows the preview. The page window is kept. The
// displayed total stays the remote collection total; the walked count is kept
// in Walked.
func (s *Store) CommitBulk(tok Token, res *pagination.BulkResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(tok, opBulk) {
		return false
	}

	s.state.Selection = NewSelection(res.Selected...)
	s.state.Rows = res.Preview
	s.state.Total = res.Total
	s.state.Walked = res.Walked
	s.state.Mode = ModeBulkPreview
	s.state.Phase = PhaseCommitted
	s.state.Loading = false
	return true
}

// Fail ends the operation tok without touching rows, total, window or
// selection.
func (s *Store) Fail(tok Token, op string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok != s.latest {
		return
	}
	s.state.Loading = false
	if op == opBulk {
		s.state.Phase = PhaseAborted
	}
}

// SetPhase records a bulk phase outside a walk (validation). It has no
// effect while a walk is in flight; only Begin, Commit and Fail move the
// phase out of PhaseWalking.
func (s *Store) SetPhase(phase BulkPhase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == PhaseWalking {
		return false
	}
	s.state.Phase = phase
	return true
}

// ReplaceSelection replaces the selection wholesale. The selection never
// holds more records than the known collection total.
func (s *Store) ReplaceSelection(records []artwork.Artwork) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := NewSelection(records...)
	if s.state.Total > 0 {
		sel = sel.Truncate(s.state.Total)
	}
	s.state.Selection = sel
	return sel
}

func (s *Store) currentLocked(tok Token, op string) bool {
	if tok == s.latest {
		return true
	}
	staleResultsTotal.WithLabelValues(op).Inc()
	s.logger.Debug().
		Str("operation", op).
		Uint64("token", uint64(tok)).
		Uint64("latest", uint64(s.latest)).
		Msg("Discarding superseded result")
	return false
}
