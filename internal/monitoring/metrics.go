// Package monitoring exposes Prometheus metrics for the host process.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Each instance carries its own
// registry so servers (and tests) do not collide on registration.
type Metrics struct {
	// Window metrics
	WindowsOpen    prometheus.Gauge
	WindowsCreated prometheus.Counter
	WindowsClosed  prometheus.Counter

	// Dispatch metrics
	DispatchTotal *prometheus.CounterVec

	// Display bridge metrics
	DisplayConnected prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a metrics collector backed by a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		WindowsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kiosk_windows_open",
			Help: "Number of window surfaces currently open",
		}),
		WindowsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "kiosk_windows_created_total",
			Help: "Total number of window surfaces created",
		}),
		WindowsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "kiosk_windows_closed_total",
			Help: "Total number of window-close events observed",
		}),
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_dispatch_total",
				Help: "Total number of dispatched UI commands",
			},
			[]string{"operation", "status"},
		),
		DisplayConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kiosk_display_connected",
			Help: "Whether a display layer is currently connected",
		}),
		registry: registry,
	}
}

// Handler serves the metrics in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordDispatch counts one dispatched command by operation and outcome.
func (m *Metrics) RecordDispatch(operation, status string) {
	m.DispatchTotal.WithLabelValues(operation, status).Inc()
}
