// Package table holds the view state of the artwork table and serialises
// updates to it.
//
// Page loads and bulk selections both rewrite the displayed rows. Each
// operation takes a token from Store.Begin before it starts; its result is
// committed only if no later operation has begun since. A slow response for
// a superseded request is discarded instead of overwriting newer state.
package table

import "github.com/Sternrassler/artic-table/pkg/artwork"

// DefaultPageSize is the initial display page size.
const DefaultPageSize = 10

// Mode tells what the displayed rows are.
type Mode string

const (
	// ModePage shows the current page window.
	ModePage Mode = "page"

	// ModeBulkPreview shows the prefix of the last bulk walk.
	ModeBulkPreview Mode = "bulk_preview"
)

// BulkPhase is the bulk selection state machine.
type BulkPhase string

const (
	PhaseIdle       BulkPhase = "idle"
	PhaseValidating BulkPhase = "validating"
	PhaseWalking    BulkPhase = "walking"
	PhaseCommitted  BulkPhase = "committed"
	PhaseAborted    BulkPhase = "aborted"
)

// State is a snapshot of the table view.
type State struct {
	// Rows are the displayed records.
	Rows []artwork.Artwork

	// Total is the remote-reported collection total.
	Total int

	// Page and PageSize are the page window (1-based page).
	Page     int
	PageSize int

	// Walked is the number of records accumulated by the last bulk walk.
	Walked int

	Mode      Mode
	Phase     BulkPhase
	Loading   bool
	Selection Selection
}

// First returns the zero-based offset of the first displayed row.
func (s State) First() int {
	if s.Page < 1 {
		return 0
	}
	return (s.Page - 1) * s.PageSize
}

// PageCount returns the number of pages for the current total and size.
func (s State) PageCount() int {
	if s.PageSize < 1 || s.Total <= 0 {
		return 1
	}
	return (s.Total + s.PageSize - 1) / s.PageSize
}

// HasNext reports whether a page follows the current one.
func (s State) HasNext() bool {
	return s.Page < s.PageCount()
}

// HasPrev reports whether a page precedes the current one.
func (s State) HasPrev() bool {
	return s.Page > 1
}
