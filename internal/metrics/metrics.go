// Package metrics provides Prometheus metrics for qanun
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for qanun
type Metrics struct {
	Registry *prometheus.Registry

	// Search metrics
	SearchQueriesTotal  *prometheus.CounterVec
	SearchDuration      *prometheus.HistogramVec
	SearchResults       *prometheus.HistogramVec
	SearchTooShortTotal prometheus.Counter

	// Index metrics
	IndexBuildsTotal   *prometheus.CounterVec
	IndexBuildDuration prometheus.Histogram
	IndexRecords       prometheus.Gauge
	IndexReady         prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all metrics on a fresh registry, so that several instances
// can coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		SearchQueriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qanun_search_queries_total",
				Help: "Total number of search queries",
			},
			[]string{"scope"},
		),
		SearchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qanun_search_duration_seconds",
				Help:    "Duration of search queries in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"scope"},
		),
		SearchResults: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qanun_search_results",
				Help:    "Number of results returned per query",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
			[]string{"scope"},
		),
		SearchTooShortTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "qanun_search_too_short_total",
				Help: "Queries rejected for being shorter than the minimum length",
			},
		),

		IndexBuildsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qanun_index_builds_total",
				Help: "Index initializations by origin (built or snapshot)",
			},
			[]string{"origin"},
		),
		IndexBuildDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qanun_index_build_duration_seconds",
				Help:    "Time to make the index ready",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		IndexRecords: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "qanun_index_records",
				Help: "Number of indexed articles",
			},
		),
		IndexReady: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "qanun_index_ready",
				Help: "1 when the search index is ready",
			},
		),

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qanun_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qanun_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// ObserveSearch records one executed search.
func (m *Metrics) ObserveSearch(scope string, took time.Duration, results int, tooShort bool) {
	if tooShort {
		m.SearchTooShortTotal.Inc()
		return
	}
	m.SearchQueriesTotal.WithLabelValues(scope).Inc()
	m.SearchDuration.WithLabelValues(scope).Observe(took.Seconds())
	m.SearchResults.WithLabelValues(scope).Observe(float64(results))
}

// ObserveIndex records the index becoming ready.
func (m *Metrics) ObserveIndex(origin string, took time.Duration, records int) {
	m.IndexBuildsTotal.WithLabelValues(origin).Inc()
	m.IndexBuildDuration.Observe(took.Seconds())
	m.IndexRecords.Set(float64(records))
	m.IndexReady.Set(1)
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
