package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics and cache.Observer using Prometheus.
type Recorder struct {
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	fallbacksTotal  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	messagesSent    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
}

// New creates a recorder on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder whose collectors live on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockmetrics_upstream_requests_total",
				Help: "Upstream provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockmetrics_upstream_duration_seconds",
				Help:    "Duration of upstream provider calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15},
			},
			[]string{"provider"},
		),
		fallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockmetrics_fallbacks_total",
				Help: "Values served from a fallback source instead of the live provider",
			},
			[]string{"provider", "kind"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockmetrics_cache_lookups_total",
				Help: "Read-through cache lookups by namespace and result",
			},
			[]string{"namespace", "result"},
		),
		messagesSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockmetrics_messages_sent_total",
				Help: "Total number of messages published",
			},
			[]string{"topic"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockmetrics_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockmetrics_last_price",
				Help: "Last streamed price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordUpstream records one provider call. outcome is "ok" or "error".
func (r *Recorder) RecordUpstream(provider, outcome string, seconds float64) {
	r.upstreamTotal.WithLabelValues(provider, outcome).Inc()
	r.upstreamLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordFallback records a value served from kind (last_known, archive, reference, constant).
func (r *Recorder) RecordFallback(provider, kind string) {
	r.fallbacksTotal.WithLabelValues(provider, kind).Inc()
}

func (r *Recorder) CacheHit(namespace string) {
	r.cacheLookups.WithLabelValues(namespace, "hit").Inc()
}

func (r *Recorder) CacheMiss(namespace string) {
	r.cacheLookups.WithLabelValues(namespace, "miss").Inc()
}

// RecordMessageSent records a message published to a topic.
func (r *Recorder) RecordMessageSent(topic string) {
	r.messagesSent.WithLabelValues(topic).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
