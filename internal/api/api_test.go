package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/artic-table/internal/testutil"
	"github.com/Sternrassler/artic-table/pkg/client"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
)

func newTestRouter(t *testing.T, mock *testutil.MockAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := client.DefaultConfig("TestApp/1.0.0 (test@example.com)")
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)

	return New(Deps{
		Pager: pagination.NewPager(c),
		Bulk:  pagination.NewBulkSelector(c, pagination.DefaultBulkConfig()),
	})
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	r := newTestRouter(t, mock)

	w := get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(r, "/ready")
	assert.Equal(t, http.StatusOK, w.Code, "no redis configured")
}

func TestListArtworks(t *testing.T) {
	mock := testutil.NewMockAPI(123)
	defer mock.Close()
	r := newTestRouter(t, mock)

	w := get(r, "/api/v1/artworks?page=3&limit=20")
	require.Equal(t, http.StatusOK, w.Code)

	var res pagination.PageResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 123, res.Total)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 20, res.PageSize)
	require.Len(t, res.Rows, 20)
	assert.Equal(t, int64(41), res.Rows[0].ID)
}

func TestListArtworks_Errors(t *testing.T) {
	mock := testutil.NewMockAPI(123)
	defer mock.Close()
	r := newTestRouter(t, mock)
	mock.SetPageResponse(4, testutil.NewServerErrorResponse())

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{name: "non-numeric page", target: "/api/v1/artworks?page=x", want: http.StatusBadRequest},
		{name: "zero page", target: "/api/v1/artworks?page=0", want: http.StatusBadRequest},
		{name: "negative limit", target: "/api/v1/artworks?limit=-1", want: http.StatusBadRequest},
		{name: "upstream failure", target: "/api/v1/artworks?page=4", want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.target)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestSelection(t *testing.T) {
	mock := testutil.NewMockAPIWithLimit(30, 20)
	defer mock.Close()
	r := newTestRouter(t, mock)

	w := get(r, "/api/v1/selection?count=25")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res pagination.BulkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Selected, 25)
	assert.Len(t, res.Preview, 12)
	assert.Equal(t, 30, res.Total)
	assert.Equal(t, 2, res.Pages)
}

func TestSelection_Errors(t *testing.T) {
	tests := []struct {
		name   string
		count  string
		failAt int
		want   int
	}{
		{name: "missing", count: "", want: http.StatusBadRequest},
		{name: "not a number", count: "abc", want: http.StatusBadRequest},
		{name: "zero", count: "0", want: http.StatusBadRequest},
		{name: "above total", count: "31", want: http.StatusBadRequest},
		{name: "walk failure", count: "30", failAt: 2, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockAPIWithLimit(30, 20)
			defer mock.Close()
			r := newTestRouter(t, mock)
			if tt.failAt > 0 {
				mock.SetPageResponse(tt.failAt, testutil.NewServerErrorResponse())
			}

			w := get(r, "/api/v1/selection?count="+tt.count)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.True(t, strings.Contains(w.Body.String(), "error"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	r := newTestRouter(t, mock)

	get(r, "/api/v1/artworks?page=1&limit=5")

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "artic_requests_total")
}

func TestReady_LocalLimiterOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.New(ratelimit.Config{RequestsPerSecond: 5}, zerolog.Nop())
	r := New(Deps{Limiter: limiter})

	w := get(r, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReady_SharedWindowState(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	require.NoError(t, rdb.FlushDB(ctx).Err())
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})

	limiter := ratelimit.New(ratelimit.Config{Redis: rdb, WindowLimit: 3, WindowSize: time.Minute}, zerolog.Nop())
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}

	w := get(New(Deps{Redis: rdb, Limiter: limiter}), "/ready")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status    string `json:"status"`
		RateLimit struct {
			Used           int     `json:"used"`
			Limit          int     `json:"limit"`
			Remaining      int     `json:"remaining"`
			Exhausted      bool    `json:"exhausted"`
			ResetInSeconds float64 `json:"reset_in_seconds"`
		} `json:"rate_limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.RateLimit.Used)
	assert.Equal(t, 3, body.RateLimit.Limit)
	assert.Zero(t, body.RateLimit.Remaining)
	assert.True(t, body.RateLimit.Exhausted)
	assert.Greater(t, body.RateLimit.ResetInSeconds, 0.0)
}
