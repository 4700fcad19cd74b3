package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	transfersTotal   *prometheus.CounterVec
	transferDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	beds             *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transfersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bed_transfers_total",
				Help: "Total number of bed transfer attempts by outcome",
			},
			[]string{"outcome"},
		),
		transferDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bed_transfer_duration_seconds",
				Help:    "Duration of bed transfer executions in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		beds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "beds",
				Help: "Number of beds by derived status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.transfersTotal,
		m.transferDuration,
		m.httpRequests,
		m.beds,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveTransfer records one ExecuteTransfer call.
func (m *Metrics) ObserveTransfer(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.transfersTotal.WithLabelValues(outcome).Inc()
	m.transferDuration.Observe(duration.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, statusCode string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusCode).Inc()
}

// SetBedCounts publishes the latest occupancy snapshot.
func (m *Metrics) SetBedCounts(occupied, available int) {
	if m == nil {
		return
	}
	m.beds.WithLabelValues("occupied").Set(float64(occupied))
	m.beds.WithLabelValues("available").Set(float64(available))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
