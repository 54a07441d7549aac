package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/Sternrassler/artic-table/internal/testutil"
	"github.com/Sternrassler/artic-table/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPager_LoadPage(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		size      int
		wantRows  int
		wantFirst int64
	}{
		{name: "first page", total: 100, page: 1, size: 10, wantRows: 10, wantFirst: 1},
		{name: "middle page", total: 100, page: 3, size: 10, wantRows: 10, wantFirst: 21},
		{name: "short last page", total: 25, page: 3, size: 10, wantRows: 5, wantFirst: 21},
		{name: "page size one", total: 5, page: 5, size: 1, wantRows: 1, wantFirst: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher(tt.total, 12)
			res, err := NewPager(f).LoadPage(context.Background(), tt.page, tt.size)
			require.NoError(t, err)

			assert.Len(t, res.Rows, tt.wantRows)
			assert.LessOrEqual(t, len(res.Rows), tt.size)
			assert.Equal(t, tt.total, res.Total)
			assert.Equal(t, tt.page, res.Page)
			assert.Equal(t, tt.size, res.PageSize)
			assert.Equal(t, tt.wantFirst, res.Rows[0].ID)
			assert.Equal(t, []fetchCall{{page: tt.page, limit: tt.size}}, f.calls)
		})
	}
}

func TestPager_LoadPage_InvalidWindow(t *testing.T) {
	tests := []struct {
		name string
		page int
		size int
	}{
		{name: "zero page", page: 0, size: 10},
		{name: "negative page", page: -1, size: 10},
		{name: "zero size", page: 1, size: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher(100, 12)
			_, err := NewPager(f).LoadPage(context.Background(), tt.page, tt.size)

			assert.ErrorIs(t, err, ErrInvalidWindow)
			assert.Zero(t, f.callCount(), "no fetch for an invalid window")
		})
	}
}

func TestPager_LoadPage_FetchFailure(t *testing.T) {
	f := newFakeFetcher(100, 12)
	f.failPage = 2
	f.failErr = &client.APIError{Kind: client.KindFetch, StatusCode: 503}

	res, err := NewPager(f).LoadPage(context.Background(), 2, 10)

	assert.ErrorIs(t, err, client.ErrFetch)
	assert.Empty(t, res.Rows)
}

func TestPager_AgainstMockAPI(t *testing.T) {
	mock := testutil.NewMockAPI(57)
	defer mock.Close()

	cfg := client.DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)

	res, err := NewPager(c).LoadPage(context.Background(), 6, 10)
	require.NoError(t, err)

	assert.Len(t, res.Rows, 7)
	assert.Equal(t, 57, res.Total)
	assert.Equal(t, 50, res.First())

	q := mock.Requests()[0]
	assert.Equal(t, "6", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
}

func TestPager_DecodeFailureAgainstMockAPI(t *testing.T) {
	mock := testutil.NewMockAPI(57)
	defer mock.Close()
	mock.SetPageResponse(1, testutil.NewMalformedResponse())

	cfg := client.DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)

	_, err = NewPager(c).LoadPage(context.Background(), 1, 10)
	assert.True(t, errors.Is(err, client.ErrDecode), "err = %v", err)
}

func TestPageFromOffset(t *testing.T) {
	tests := []struct {
		first, rows, want int
	}{
		{first: 0, rows: 10, want: 1},
		{first: 10, rows: 10, want: 2},
		{first: 40, rows: 20, want: 3},
		{first: 5, rows: 10, want: 1},
		{first: 0, rows: 0, want: 1},
		{first: -10, rows: 10, want: 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageFromOffset(tt.first, tt.rows), "first=%d rows=%d", tt.first, tt.rows)
	}
}
