package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muurk/todolist/internal/feed"
)

const metricsNamespace = "todolist"

// Metrics holds the server's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	Events       *prometheus.CounterVec
}

// NewMetrics creates the collectors. hub and collections back the gauges and
// may be nil.
func NewMetrics(hub *feed.Hub, collections *Collections) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "feed_events_total",
				Help:      "Total number of change events published",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(m.HTTPRequests, m.HTTPDuration, m.Events)

	if hub != nil {
		registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "feed_subscribers",
				Help:      "Number of connected change feed subscribers",
			},
			func() float64 { return float64(hub.Subscribers()) },
		))
	}
	if collections != nil {
		registry.MustRegister(&recordsCollector{
			collections: collections,
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(metricsNamespace, "", "records"),
				"Number of records per collection",
				[]string{"collection"}, nil,
			),
		})
	}

	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest records one finished HTTP request
func (m *Metrics) RecordRequest(method string, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordEvent counts one published change event
func (m *Metrics) RecordEvent(t feed.EventType) {
	m.Events.WithLabelValues(string(t)).Inc()
}

// recordsCollector reports collection sizes at scrape time
type recordsCollector struct {
	collections *Collections
	desc        *prometheus.Desc
}

func (c *recordsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *recordsCollector) Collect(ch chan<- prometheus.Metric) {
	for name, n := range c.collections.Sizes() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), name)
	}
}
