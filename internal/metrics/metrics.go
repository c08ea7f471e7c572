// Package metrics exposes Prometheus instrumentation for the HTTP server and
// the sizing engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculation outcomes.
const (
	OutcomeSelected           = "selected"
	OutcomeNoSelection        = "no_selection"
	OutcomeValidationError    = "validation_error"
	OutcomeConfigurationError = "configuration_error"
)

type Metrics struct {
	registry *prometheus.Registry

	calculations        *prometheus.CounterVec
	calculationDuration prometheus.Histogram
	selectedSize        prometheus.Histogram
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltdesk",
			Name:      "cable_size_calculations_total",
			Help:      "Cable sizing requests by outcome.",
		}, []string{"outcome"}),
		calculationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voltdesk",
			Name:      "cable_size_calculation_seconds",
			Help:      "Time spent in the sizing engine.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		selectedSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voltdesk",
			Name:      "cable_size_selected_mm2",
			Help:      "Conductor sizes selected by the engine.",
			Buckets:   []float64{1.5, 2.5, 4, 6, 10, 16, 25, 35, 50, 70, 95, 120, 150, 185, 240, 300},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voltdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.calculations,
		m.calculationDuration,
		m.selectedSize,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveCalculation records one engine run. size is ignored unless the
// outcome is OutcomeSelected.
func (m *Metrics) ObserveCalculation(outcome string, size float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
	m.calculationDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeSelected {
		m.selectedSize.Observe(size)
	}
}

// Middleware counts requests per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CalculationsTotal returns the counter for one outcome.
func (m *Metrics) CalculationsTotal(outcome string) prometheus.Counter {
	return m.calculations.WithLabelValues(outcome)
}
