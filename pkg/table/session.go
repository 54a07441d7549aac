package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/artic-table/pkg/artwork"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	opPage = "page"
	opBulk = "bulk"
)

// ErrSuperseded is returned when an operation finished after a newer one had
// started; its result was discarded.
var ErrSuperseded = errors.New("result superseded by a newer request")

// Session drives the store from page and bulk selection interactions.
// Fetch and decode failures are logged and returned; the state is left as it
// was before the call.
type Session struct {
	store  *Store
	pager  *pagination.Pager
	bulk   *pagination.BulkSelector
	logger zerolog.Logger
}

// NewSession wires a store to a pager and bulk selector.
func NewSession(store *Store, pager *pagination.Pager, bulk *pagination.BulkSelector) *Session {
	return &Session{
		store:  store,
		pager:  pager,
		bulk:   bulk,
		logger: log.With().Str("component", "table-session").Logger(),
	}
}

// State returns the current view state.
func (s *Session) State() State {
	return s.store.Snapshot()
}

// LoadPage loads the window (page, size) and commits rows, total and page
// together.
func (s *Session) LoadPage(ctx context.Context, page, size int) error {
	if page < 1 || size < 1 {
		return fmt.Errorf("%w: page=%d size=%d", pagination.ErrInvalidWindow, page, size)
	}

	tok := s.store.Begin(opPage)
	res, err := s.pager.LoadPage(ctx, page, size)
	if err != nil {
		s.logFailure(tok, err).Int("page", page).Int("size", size).Msg("Error fetching artworks")
		s.store.Fail(tok, opPage)
		return err
	}

	if !s.store.CommitPage(tok, res) {
		return ErrSuperseded
	}
	return nil
}

// ChangePageSize switches the display page size and reloads page 1.
func (s *Session) ChangePageSize(ctx context.Context, size int) error {
	return s.LoadPage(ctx, 1, size)
}

// OnPage handles a paginator event carrying a zero-based offset and a page
// size. A size change resets to page 1.
func (s *Session) OnPage(ctx context.Context, first, rows int) error {
	if rows != s.store.Snapshot().PageSize {
		return s.ChangePageSize(ctx, rows)
	}
	return s.LoadPage(ctx, pagination.PageFromOffset(first, rows), rows)
}

// Reload fetches the current window again.
func (s *Session) Reload(ctx context.Context) error {
	st := s.store.Snapshot()
	return s.LoadPage(ctx, st.Page, st.PageSize)
}

// NextPage loads the page after the current one, if any.
func (s *Session) NextPage(ctx context.Context) error {
	st := s.store.Snapshot()
	if !st.HasNext() {
		return nil
	}
	return s.LoadPage(ctx, st.Page+1, st.PageSize)
}

// PrevPage loads the page before the current one, if any.
func (s *Session) PrevPage(ctx context.Context) error {
	st := s.store.Snapshot()
	if !st.HasPrev() {
		return nil
	}
	return s.LoadPage(ctx, st.Page-1, st.PageSize)
}

// CanSubmit reports whether input is an acceptable bulk target for the
// known total.
func (s *Session) CanSubmit(input string) bool {
	return pagination.CanSubmit(input, s.store.Snapshot().Total)
}

// BulkSelect validates input and, when valid, selects the first N records of
// the collection. On failure the selection and view are unchanged.
func (s *Session) BulkSelect(ctx context.Context, input string) (*pagination.BulkResult, error) {
	// A submit while a walk is running is validated without leaving
	// PhaseWalking.
	s.store.SetPhase(PhaseValidating)
	n, err := pagination.ParseTarget(input, s.store.Snapshot().Total)
	if err != nil {
		s.store.SetPhase(PhaseIdle)
		return nil, err
	}

	tok := s.store.Begin(opBulk)
	res, err := s.bulk.Select(ctx, n)
	if err != nil {
		s.logFailure(tok, err).Int("target", n).Msg("Error fetching rows across pages")
		s.store.Fail(tok, opBulk)
		return nil, err
	}

	if !s.store.CommitBulk(tok, res) {
		return nil, ErrSuperseded
	}
	return res, nil
}

// logFailure logs at error level, or at debug level when a newer operation
// has already superseded tok.
func (s *Session) logFailure(tok Token, err error) *zerolog.Event {
	if !s.store.IsCurrent(tok) {
		return s.logger.Debug().Err(err).Bool("superseded", true)
	}
	return s.logger.Error().Err(err)
}

// ReplaceSelection sets the selection to what the table widget reports as
// selected.
func (s *Session) ReplaceSelection(records []artwork.Artwork) Selection {
	return s.store.ReplaceSelection(records)
}

// ToggleRow flips the selection of one displayed record.
func (s *Session) ToggleRow(r artwork.Artwork) Selection {
	return s.ReplaceSelection(s.store.Snapshot().Selection.Toggle(r).Records())
}

// ToggleVisible selects every displayed row, or deselects them all when they
// are already selected.
func (s *Session) ToggleVisible() Selection {
	st := s.store.Snapshot()
	if st.Selection.ContainsAll(st.Rows) {
		ids := make([]int64, len(st.Rows))
		for i, r := range st.Rows {
			ids[i] = r.ID
		}
		return s.ReplaceSelection(st.Selection.Without(ids...).Records())
	}
	return s.ReplaceSelection(st.Selection.With(st.Rows...).Records())
}
