// Package observability provides Prometheus instrumentation for upstream
// provider calls, wired into llmclient as hooks.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"voxd/internal/llmclient"
)

// Metrics holds the Prometheus collectors for provider traffic.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transportErrors *prometheus.CounterVec
}

// NewMetrics registers the provider collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxd_provider_requests_total",
			Help: "Upstream provider requests by provider, endpoint and status code.",
		}, []string{"provider", "endpoint", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxd_provider_request_duration_seconds",
			Help:    "Upstream provider request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "endpoint"}),
		transportErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxd_provider_transport_errors_total",
			Help: "Upstream calls that failed before producing a status code.",
		}, []string{"provider", "endpoint"}),
	}
}

// Hooks returns llmclient hooks that feed these collectors.
func (m *Metrics) Hooks() llmclient.Hooks {
	return llmclient.Hooks{
		OnResponse: func(provider, endpoint string, statusCode int, duration time.Duration, err error) {
			if err != nil {
				m.transportErrors.WithLabelValues(provider, endpoint).Inc()
				return
			}
			m.requestsTotal.WithLabelValues(provider, endpoint, statusLabel(statusCode)).Inc()
			m.requestDuration.WithLabelValues(provider, endpoint).Observe(duration.Seconds())
		},
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 200:
		return "2xx"
	default:
		return "other"
	}
}
