package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/artic-table/pkg/artwork"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// DefaultPreviewSize is the number of walked records displayed after a bulk
// selection.
const DefaultPreviewSize = 12

var (
	bulkWalksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_bulk_walks_total",
		Help: "Bulk selection walks by outcome",
	}, []string{"outcome"})

	bulkPagesWalked = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "artic_bulk_pages_walked",
		Help:    "Pages fetched per completed bulk selection walk",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	})
)

// BulkConfig holds bulk walk configuration.
type BulkConfig struct {
	// PageSize is the page width requested during the walk. 0 lets the source
	// apply its default width.
	PageSize int

	// PreviewSize caps the records returned for display.
	PreviewSize int
}

// DefaultBulkConfig returns the source default width and a 12 record preview.
func DefaultBulkConfig() BulkConfig {
	return BulkConfig{
		PageSize:    0,
		PreviewSize: DefaultPreviewSize,
	}
}

// BulkResult is the outcome of a completed walk.
type BulkResult struct {
	// Selected holds the first min(N, Walked) records in collection order.
	Selected []artwork.Artwork `json:"selected"`

	// Preview holds the first PreviewSize walked records.
	Preview []artwork.Artwork `json:"preview"`

	// Walked is the number of records accumulated.
	Walked int `json:"walked"`

	// Total is the collection total reported by the last fetched page.
	Total int `json:"total"`

	// Pages is the number of pages fetched.
	Pages int `json:"pages"`
}

// BulkSelector selects the first N records of the whole collection.
type BulkSelector struct {
	fetcher PageFetcher
	config  BulkConfig
}

// NewBulkSelector creates a bulk selector over fetcher.
func NewBulkSelector(fetcher PageFetcher, config BulkConfig) *BulkSelector {
	if config.PageSize < 0 {
		config.PageSize = 0
	}
	if config.PreviewSize <= 0 {
		config.PreviewSize = DefaultPreviewSize
	}
	return &BulkSelector{
		fetcher: fetcher,
		config:  config,
	}
}

// Select walks pages from page 1 until n records are accumulated or the
// source reports the last page, then returns the first n of them.
func (s *BulkSelector) Select(ctx context.Context, n int) (*BulkResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, n)
	}

	start := time.Now()
	logger := log.With().
		Str("component", "bulk-selector").
		Str("walk_id", uuid.NewString()).
		Int("target", n).
		Logger()

	logger.Info().Int("page_size", s.config.PageSize).Msg("Starting bulk selection walk")

	var acc []artwork.Artwork
	var last artwork.Pagination
	page := 1

	for {
		if err := ctx.Err(); err != nil {
			bulkWalksTotal.WithLabelValues("cancelled").Inc()
			logger.Info().
				Int("pages", page-1).
				Int("walked", len(acc)).
				Msg("Bulk selection walk cancelled")
			return nil, fmt.Errorf("bulk walk cancelled before page %d: %w", page, err)
		}

		res, err := s.fetcher.FetchPage(ctx, page, s.config.PageSize)
		if err != nil {
			bulkWalksTotal.WithLabelValues("failed").Inc()
			logger.Error().
				Err(err).
				Int("page", page).
				Int("walked", len(acc)).
				Msg("Bulk selection walk aborted")
			return nil, fmt.Errorf("bulk walk page %d: %w", page, err)
		}

		acc = append(acc, res.Data...)
		last = res.Pagination
		page++

		if len(acc) >= n {
			break
		}
		if last.IsLast() {
			break
		}
		// A source that keeps answering with empty pages would never report
		// its last page.
		if len(res.Data) == 0 {
			logger.Warn().Int("page", page-1).Msg("Empty page before reported end, stopping walk")
			break
		}
	}

	pages := page - 1
	selected := min(n, len(acc))
	preview := min(s.config.PreviewSize, len(acc))
	result := &BulkResult{
		Selected: acc[:selected:selected],
		Preview:  acc[:preview:preview],
		Walked:   len(acc),
		Total:    last.Total,
		Pages:    pages,
	}

	bulkWalksTotal.WithLabelValues("committed").Inc()
	bulkPagesWalked.Observe(float64(pages))
	logger.Info().
		Int("pages", pages).
		Int("walked", result.Walked).
		Int("selected", len(result.Selected)).
		Dur("duration", time.Since(start)).
		Msg("Bulk selection walk complete")

	return result, nil
}
