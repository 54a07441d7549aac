package pagination

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/artic-table/pkg/artwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInvalidWindow is returned for a page index or size below 1.
var ErrInvalidWindow = errors.New("invalid page window")

// PageFetcher fetches a single page of the collection. limit <= 0 asks the
// source for its default page width.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, limit int) (*artwork.Page, error)
}

// PageResult is the display state produced by one page load.
type PageResult struct {
	Rows     []artwork.Artwork `json:"rows"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// First returns the zero-based offset of the first row of the window.
func (r PageResult) First() int {
	return (r.Page - 1) * r.PageSize
}

// Pager loads page windows.
type Pager struct {
	fetcher PageFetcher
	logger  zerolog.Logger
}

// NewPager creates a pager over fetcher.
func NewPager(fetcher PageFetcher) *Pager {
	return &Pager{
		fetcher: fetcher,
		logger:  log.With().Str("component", "pager").Logger(),
	}
}

// LoadPage fetches the window (page, size). The total is the remote-reported
// collection total. Rows are taken as returned by the source.
func (p *Pager) LoadPage(ctx context.Context, page, size int) (PageResult, error) {
	if page < 1 || size < 1 {
		return PageResult{}, fmt.Errorf("%w: page=%d size=%d", ErrInvalidWindow, page, size)
	}

	res, err := p.fetcher.FetchPage(ctx, page, size)
	if err != nil {
		return PageResult{}, fmt.Errorf("load page %d: %w", page, err)
	}

	p.logger.Debug().
		Int("page", page).
		Int("size", size).
		Int("rows", len(res.Data)).
		Int("total", res.Pagination.Total).
		Msg("Page loaded")

	return PageResult{
		Rows:     res.Data,
		Total:    res.Pagination.Total,
		Page:     page,
		PageSize: size,
	}, nil
}

// PageFromOffset maps a zero-based row offset and page size to a 1-based
// page index.
func PageFromOffset(first, rows int) int {
	if rows < 1 || first < 0 {
		return 1
	}
	return first/rows + 1
}
