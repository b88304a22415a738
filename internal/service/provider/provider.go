// Package provider wraps the upstream clients in read-through caching and an
// ordered fallback chain so that callers always receive a value.
package provider

import (
	"context"
	"time"

	"StockMetrics/internal/domain/repository"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
)

// Fallback kinds recorded in logs and metrics.
const (
	FallbackLastKnown = "last_known"
	FallbackArchive   = "archive"
	FallbackReference = "reference"
	FallbackConstant  = "constant"
)

// TTLs holds the per-source freshness windows.
type TTLs struct {
	Quote        time.Duration
	History      time.Duration
	NAV          time.Duration
	Fundamentals time.Duration
	Documents    time.Duration
	News         time.Duration
	FX           time.Duration
	SearchIndex  time.Duration
}

// DefaultTTLs mirrors config/config.yaml.
func DefaultTTLs() TTLs {
	return TTLs{
		Quote:        30 * time.Second,
		History:      5 * time.Minute,
		NAV:          time.Hour,
		Fundamentals: 6 * time.Hour,
		Documents:    12 * time.Hour,
		News:         10 * time.Minute,
		FX:           6 * time.Hour,
		SearchIndex:  12 * time.Hour,
	}
}

type base struct {
	loader  *cache.Loader
	logger  *logger.Logger
	metrics repository.Metrics
	now     func() time.Time
}

func newBase(loader *cache.Loader, l *logger.Logger, m repository.Metrics) base {
	if m == nil {
		m = repository.NopMetrics{}
	}
	return base{loader: loader, logger: l, metrics: m, now: time.Now}
}

func (b *base) fellBack(provider, symbol, kind string) {
	b.metrics.RecordFallback(provider, kind)
	b.logger.Info("provider: serving fallback",
		logger.String("provider", provider),
		logger.String("symbol", symbol),
		logger.String("fallback", kind),
	)
}

// load runs fn through the read-through cache. When fn fails it returns the
// last-known value with stale=true, or the error if nothing was ever loaded.
func load[T any](ctx context.Context, b *base, provider, symbol, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, bool, error) {
	v, err := cache.GetOrLoad(ctx, b.loader, key, ttl, func(ctx context.Context) (T, error) {
		start := time.Now()
		v, err := fn(ctx)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		b.metrics.RecordUpstream(provider, outcome, time.Since(start).Seconds())
		return v, err
	})
	if err == nil {
		return v, false, nil
	}

	b.logger.Warn("provider: upstream failed",
		logger.String("provider", provider),
		logger.String("symbol", symbol),
		logger.Error(err),
	)
	if last, ok := cache.LastKnown[T](ctx, b.loader, key); ok {
		b.fellBack(provider, symbol, FallbackLastKnown)
		return last, true, nil
	}
	var zero T
	return zero, false, err
}
