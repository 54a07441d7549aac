// Package testutil provides an in-process fake of the artwork listing API.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Sternrassler/artic-table/pkg/artwork"
)

// DefaultLimit is the page width the fake applies when no limit is given,
// matching the public API.
const DefaultLimit = 12

// MockResponse overrides the reply for one page.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockAPI serves /artworks over a synthetic collection of Total records with
// IDs 1..Total in collection order.
type MockAPI struct {
	server *httptest.Server

	mu           sync.RWMutex
	total        int
	defaultLimit int
	overrides    map[int]MockResponse
	delays       map[int]time.Duration

	// Tracking
	requests          []url.Values
	lastRequestHeader http.Header
}

// NewMockAPI creates a fake with total records and the default page width.
func NewMockAPI(total int) *MockAPI {
	return NewMockAPIWithLimit(total, DefaultLimit)
}

// NewMockAPIWithLimit creates a fake whose default page width is limit.
func NewMockAPIWithLimit(total, limit int) *MockAPI {
	m := &MockAPI{
		total:        total,
		defaultLimit: limit,
		overrides:    make(map[int]MockResponse),
		delays:       make(map[int]time.Duration),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/artworks", m.handleArtworks)
	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the base URL to configure the client with.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears request tracking.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.lastRequestHeader = nil
}

// SetTotal changes the collection size.
func (m *MockAPI) SetTotal(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
}

// SetPageResponse replaces the reply for page.
func (m *MockAPI) SetPageResponse(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[page] = resp
}

// ClearPageResponse restores the generated reply for page.
func (m *MockAPI) ClearPageResponse(page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, page)
}

// SetPageDelay delays the generated reply for page.
func (m *MockAPI) SetPageDelay(page int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[page] = d
}

// RequestCount returns the number of /artworks requests served.
func (m *MockAPI) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Requests returns the query of every request, in arrival order.
func (m *MockAPI) Requests() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]url.Values, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequestHeader returns the headers of the latest request.
func (m *MockAPI) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestHeader
}

func (m *MockAPI) handleArtworks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	m.mu.Lock()
	m.requests = append(m.requests, q)
	m.lastRequestHeader = r.Header.Clone()
	total := m.total
	defaultLimit := m.defaultLimit
	m.mu.Unlock()

	page := 1
	if v := q.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = p
	}
	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = l
	}

	m.mu.RLock()
	override, hasOverride := m.overrides[page]
	delay := m.delays[page]
	m.mu.RUnlock()

	if hasOverride {
		if override.Delay > 0 {
			time.Sleep(override.Delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(override.StatusCode)
		w.Write([]byte(override.Body))
		return
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GeneratePage(total, page, limit))
}

// GeneratePage builds the listing body for page of a collection of total
// records with IDs 1..total.
func GeneratePage(total, page, limit int) artwork.Page {
	offset := (page - 1) * limit
	data := make([]artwork.Artwork, 0, limit)
	for i := offset; i < offset+limit && i < total; i++ {
		data = append(data, Record(int64(i+1)))
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return artwork.Page{
		Data: data,
		Pagination: artwork.Pagination{
			Total:       total,
			Limit:       limit,
			Offset:      offset,
			TotalPages:  totalPages,
			CurrentPage: page,
		},
	}
}

// Record returns the synthetic record with the given id.
func Record(id int64) artwork.Artwork {
	a := artwork.Artwork{
		ID:            id,
		Title:         fmt.Sprintf("Artwork %d", id),
		PlaceOfOrigin: "Chicago",
		ArtistDisplay: fmt.Sprintf("Artist %d", id%7),
		DateStart:     1800 + int(id%200),
		DateEnd:       1810 + int(id%200),
	}
	if id%3 == 0 {
		text := fmt.Sprintf("signed l.r.: %d", id)
		a.Inscriptions = &text
	}
	return a
}

// Records returns synthetic records first..last inclusive.
func Records(first, last int64) []artwork.Artwork {
	out := make([]artwork.Artwork, 0, last-first+1)
	for id := first; id <= last; id++ {
		out = append(out, Record(id))
	}
	return out
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "error": msg})
}

// NewServerErrorResponse creates a 500 reply.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"status":500,"error":"Internal server error"}`,
	}
}

// NewRateLimitResponse creates a 429 reply.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"status":429,"error":"Too many requests"}`,
	}
}

// NewMalformedResponse creates a 200 reply that is not a listing.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"detail":"maintenance"}`,
	}
}
