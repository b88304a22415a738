// Package metrics exposes latency and error collectors for the analytics endpoints.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Analytics struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
}

func NewAnalytics(reg prometheus.Registerer) *Analytics {
	f := promauto.With(reg)
	return &Analytics{
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockmetrics",
				Subsystem: "analytics",
				Name:      "latency_seconds",
				Help:      "Latency of analytics operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "provider"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockmetrics",
				Subsystem: "analytics",
				Name:      "errors_total",
				Help:      "Remote AI failures answered by the heuristic fallback",
			},
			[]string{"operation", "provider"},
		),
	}
}

// Observe records the duration since start.
func (a *Analytics) Observe(operation, provider string, start time.Time) {
	if a == nil {
		return
	}
	a.latency.WithLabelValues(operation, provider).Observe(time.Since(start).Seconds())
}

func (a *Analytics) Fail(operation, provider string) {
	if a == nil {
		return
	}
	a.errors.WithLabelValues(operation, provider).Inc()
}
