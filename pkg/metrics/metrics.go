// Package metrics exposes the Prometheus registry and scrape handler used by
// the artwork table. All metrics are defined in their respective packages
// (client, pagination, ratelimit, table) and registered via promauto.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry read side served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the scrape handler for Gatherer. Scrapes are themselves
// counted in Registry (promhttp_metric_handler_requests_total).
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(Registry, promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{}))
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - artic_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - artic_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - artic_errors_total{kind, class} (Counter): Errors by kind (fetch, decode) and class
//
// Retry Metrics (pkg/client):
//   - artic_retries_total{error_class} (Counter): Retry attempts by error class
//   - artic_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - artic_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Bulk Selection Metrics (pkg/pagination):
//   - artic_bulk_walks_total{outcome} (Counter): Walks by outcome (committed, failed, cancelled)
//   - artic_bulk_pages_walked (Histogram): Pages fetched per completed walk
//
// Rate Limit Metrics (pkg/ratelimit):
//   - artic_rate_limit_window_used (Gauge): Requests counted in the shared window
//   - artic_rate_limit_waits_total{layer} (Counter): Requests delayed, by layer (local, redis)
//
// View Metrics (pkg/table):
//   - artic_stale_results_total{operation} (Counter): Superseded results discarded
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(artic_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(artic_request_duration_seconds_bucket[5m]))
//
//   # Bulk walk failure ratio
//   sum(rate(artic_bulk_walks_total{outcome="failed"}[15m])) /
//   sum(rate(artic_bulk_walks_total[15m]))
