// Package metrics provides Prometheus metrics for xmlgrove
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for xmlgrove
type Metrics struct {
	// Build metrics
	BuildsTotal      *prometheus.CounterVec
	BuildDuration    prometheus.Histogram
	NodesPerDocument prometheus.Histogram
	CorpusBytesTotal prometheus.Counter
	AttributesTotal  prometheus.Counter

	// Query metrics
	SearchQueriesTotal prometheus.Counter
	SearchResultsTotal prometheus.Counter
	LocateWalksTotal   prometheus.Counter
	TagQueriesTotal    prometheus.Counter
	NavigationOpsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{}

	// Build metrics
	m.BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xmlgrove_builds_total",
			Help: "Total number of document builds",
		},
		[]string{"status"},
	)

	m.BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xmlgrove_build_duration_seconds",
			Help:    "Duration of document builds in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	m.NodesPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xmlgrove_nodes_per_document",
			Help:    "Node count per built document",
			Buckets: prometheus.ExponentialBuckets(10, 10, 8),
		},
	)

	m.CorpusBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xmlgrove_corpus_bytes_total",
			Help: "Total text corpus bytes indexed across builds",
		},
	)

	m.AttributesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xmlgrove_attributes_total",
			Help: "Total attribute records stored across builds",
		},
	)

	// Query metrics
	m.SearchQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xmlgrove_search_queries_total",
			Help: "Total number of substring search queries",
		},
	)

	m.SearchResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xmlgrove_search_results_total",
			Help: "Total number of substring matches returned",
		},
	)

	m.LocateWalksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xmlgrove_locate_walks_total",
			Help: "Total number of locate offset resolutions",
		},
	)

	m.TagQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xmlgrove_tag_queries_total",
			Help: "Total number of tag enumeration queries",
		},
	)

	m.NavigationOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xmlgrove_navigation_ops_total",
			Help: "Total number of tree navigation operations",
		},
		[]string{"operation"},
	)

	return m
}

// RecordBuild records a completed or failed build
func (m *Metrics) RecordBuild(status string, nodes int, corpusBytes int, attributes int, duration time.Duration) {
	m.BuildsTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		m.BuildDuration.Observe(duration.Seconds())
		m.NodesPerDocument.Observe(float64(nodes))
		m.CorpusBytesTotal.Add(float64(corpusBytes))
		m.AttributesTotal.Add(float64(attributes))
	}
}

// RecordSearch records a substring query and its result count
func (m *Metrics) RecordSearch(results int) {
	m.SearchQueriesTotal.Inc()
	m.SearchResultsTotal.Add(float64(results))
}

// Registration is global, so the instance is shared process-wide.
var (
	global *Metrics
	once   sync.Once
)

// Get returns the process-wide metrics instance
func Get() *Metrics {
	once.Do(func() {
		global = NewMetrics()
	})
	return global
}
