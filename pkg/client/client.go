// Package client provides the HTTP client for the Art Institute of Chicago
// artwork listing endpoint, with pacing, error classification and metrics.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/artic-table/pkg/artwork"
	"github.com/Sternrassler/artic-table/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.artic.edu/api/v1"

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artic_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_errors_total",
		Help: "Total API errors by kind and class",
	}, []string{"kind", "class"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artic_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client fetches pages of the artwork collection.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	limiter    *ratelimit.Limiter
	retry      RetryConfig
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, without the /artworks suffix.
	BaseURL string

	// UserAgent is sent as both User-Agent and AIC-User-Agent. The API asks
	// clients to identify themselves with a contact address.
	UserAgent string

	// Timeout per HTTP request.
	Timeout time.Duration

	// Fields restricts the returned record columns. Empty requests all fields.
	Fields []string

	// Retry. MaxAttempts 1 means a failure is reported immediately.
	MaxAttempts    int
	InitialBackoff time.Duration

	// Limiter paces requests. Nil disables pacing.
	Limiter *ratelimit.Limiter
}

// DefaultConfig returns the default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		UserAgent:      userAgent,
		Timeout:        30 * time.Second,
		Fields:         artwork.DefaultFields,
		MaxAttempts:    1,
		InitialBackoff: 1 * time.Second,
	}
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}

	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max_attempts must be >= 1 (got %d)", cfg.MaxAttempts)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	retry := DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	if cfg.InitialBackoff > 0 {
		retry.InitialBackoff = cfg.InitialBackoff
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		limiter:    cfg.Limiter,
		retry:      retry,
		config:     cfg,
		logger:     log.With().Str("component", "artic-client").Logger(),
	}, nil
}

// Do performs an HTTP request with pacing, retry and error classification.
// Any status >= 400 is returned as an *APIError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("AIC-User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", req.URL.RawQuery).
		Msg("Executing API request")

	var resp *http.Response
	err := retryWithBackoff(ctx, c.retry, func() (ErrorClass, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		r, err := c.httpClient.Do(req)
		if err != nil {
			class := c.classifyError(nil, err)
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return class, err
		}

		if r.StatusCode >= 400 {
			class := c.classifyError(r, nil)
			requestsTotal.WithLabelValues(endpoint, strconv.Itoa(r.StatusCode)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", r.StatusCode).
				Str("error_class", string(class)).
				Msg("API request error")
			r.Body.Close()
			return class, &APIError{
				Kind:       KindFetch,
				Class:      class,
				StatusCode: r.StatusCode,
				Message:    r.Status,
			}
		}

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(r.StatusCode)).Inc()
		resp = r
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	case resp.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// PageURL builds the listing URL for a page. limit <= 0 omits the limit
// parameter so the source applies its default page width.
func (c *Client) PageURL(page, limit int) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/artworks"

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(c.config.Fields) > 0 {
		q.Set("fields", strings.Join(c.config.Fields, ","))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// FetchPage requests one page of the collection. Failures are returned as
// *APIError matching ErrFetch or ErrDecode.
func (c *Client) FetchPage(ctx context.Context, page, limit int) (*artwork.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(page, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		apiErr := asAPIError(err, page)
		errorsTotal.WithLabelValues(string(apiErr.Kind), string(apiErr.Class)).Inc()
		return nil, apiErr
	}
	defer resp.Body.Close()

	result, err := artwork.Decode(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(KindDecode), "").Inc()
		c.logger.Error().Err(err).Int("page", page).Msg("Listing response did not decode")
		return nil, &APIError{
			Kind:       KindDecode,
			StatusCode: resp.StatusCode,
			Page:       page,
			Err:        err,
		}
	}

	c.logger.Debug().
		Int("page", page).
		Int("limit", limit).
		Int("rows", len(result.Data)).
		Int("total", result.Pagination.Total).
		Msg("Fetched page")

	return result, nil
}

// asAPIError normalises a Do failure into a fetch *APIError for page.
func asAPIError(err error, page int) *APIError {
	var inner *APIError
	if errors.As(err, &inner) {
		if error(inner) == err {
			inner.Page = page
			return inner
		}
		return &APIError{
			Kind:       inner.Kind,
			Class:      inner.Class,
			StatusCode: inner.StatusCode,
			Page:       page,
			Err:        err,
		}
	}
	return &APIError{
		Kind:  KindFetch,
		Class: ErrorClassNetwork,
		Page:  page,
		Err:   err,
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
