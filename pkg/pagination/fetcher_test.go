package pagination

import (
	"context"
	"sync"

	"github.com/Sternrassler/artic-table/internal/testutil"
	"github.com/Sternrassler/artic-table/pkg/artwork"
)

// fakeFetcher serves a synthetic collection and records each call.
type fakeFetcher struct {
	mu           sync.Mutex
	total        int
	defaultLimit int
	failPage     int
	failErr      error
	calls        []fetchCall
	onFetch      func(page int)
}

type fetchCall struct {
	page  int
	limit int
}

func newFakeFetcher(total, defaultLimit int) *fakeFetcher {
	return &fakeFetcher{total: total, defaultLimit: defaultLimit}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page, limit int) (*artwork.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{page: page, limit: limit})
	onFetch := f.onFetch
	f.mu.Unlock()

	if onFetch != nil {
		onFetch(page)
	}
	if f.failPage == page {
		return nil, f.failErr
	}

	width := limit
	if width <= 0 {
		width = f.defaultLimit
	}
	p := testutil.GeneratePage(f.total, page, width)
	return &p, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
