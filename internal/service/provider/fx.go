package provider

import (
	"context"
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
	"StockMetrics/pkg/util"
)

const (
	ReferenceUSDINR = 83.0
	ReferenceSource = "Reference FX rate"
	fxKey           = "fx:usd-inr"
)

// FX resolves USD/INR through cache, the persisted last-known rate and finally
// a constant, so a usable rate is always returned.
type FX struct {
	base
	source repository.RateSource
	kv     repository.KVStore
	ttl    time.Duration
}

func NewFX(source repository.RateSource, kv repository.KVStore, loader *cache.Loader, ttl TTLs, l *logger.Logger, m repository.Metrics) *FX {
	return &FX{base: newBase(loader, l, m), source: source, kv: kv, ttl: ttl.FX}
}

func (f *FX) USDINR(ctx context.Context) models.FXRate {
	rate, stale, err := load(ctx, &f.base, "fx", "USDINR", fxKey, f.ttl,
		func(ctx context.Context) (models.FXRate, error) {
			r, err := f.source.USDRate(ctx, models.CurrencyINR)
			if err == nil {
				if perr := f.kv.PutJSON(ctx, fxKey, r); perr != nil {
					f.logger.Warn("provider: persist fx rate", logger.Error(perr))
				}
			}
			return r, err
		})
	if err == nil {
		rate.Stale = rate.Stale || stale
		return rate
	}

	var persisted models.FXRate
	if kerr := f.kv.GetJSON(ctx, fxKey, &persisted); kerr == nil && persisted.Rate > 0 {
		persisted.Stale = true
		f.fellBack("fx", "USDINR", FallbackLastKnown)
		return persisted
	}

	f.fellBack("fx", "USDINR", FallbackConstant)
	return models.FXRate{
		Rate:      ReferenceUSDINR,
		Source:    ReferenceSource,
		Timestamp: util.ISO(f.now()),
		Stale:     true,
	}
}
