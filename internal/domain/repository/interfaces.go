package repository

import (
	"context"
	"time"

	"StockMetrics/internal/domain/models"
)

// Adapter ports. Implementations absorb upstream failures and always return a value.

type MarketAdapter interface {
	Quote(ctx context.Context, e models.SearchEntity) models.Quote
	History(ctx context.Context, e models.SearchEntity, r Range) models.HistorySeries
}

type FundamentalsAdapter interface {
	Fundamentals(ctx context.Context, e models.SearchEntity) models.FundamentalsBundle
}

type NewsAdapter interface {
	News(ctx context.Context, e models.SearchEntity) []models.NewsItem
}

type DocumentsAdapter interface {
	Documents(ctx context.Context, e models.SearchEntity) []models.DocumentLink
}

type FXAdapter interface {
	USDINR(ctx context.Context) models.FXRate
}

// SymbolIndex loads one market's full symbol universe.
type SymbolIndex interface {
	Market() models.MarketKind
	Entities(ctx context.Context) []models.SearchEntity
}

// Upstream ports. These return ErrUpstreamUnavailable-wrapped errors.

type QuoteSource interface {
	Quote(ctx context.Context, e models.SearchEntity) (models.Quote, error)
	History(ctx context.Context, e models.SearchEntity, r Range) (models.HistorySeries, error)
}

type FundamentalsSource interface {
	Fundamentals(ctx context.Context, e models.SearchEntity) (models.FundamentalsBundle, error)
	Documents(ctx context.Context, e models.SearchEntity) ([]models.DocumentLink, error)
}

type NewsSource interface {
	Search(ctx context.Context, companyName, symbol string) ([]models.NewsItem, error)
}

type RateSource interface {
	USDRate(ctx context.Context, currency string) (models.FXRate, error)
}

// HistoryArchive keeps every successfully fetched history point for use when the
// provider and the cache both fail. Series are keyed by bar interval so daily and
// weekly bars never mix.
type HistoryArchive interface {
	Save(ctx context.Context, symbol, interval string, series models.HistorySeries) error
	Load(ctx context.Context, symbol, interval string, from time.Time) (models.HistorySeries, error)
}

// KVStore is a durable last-known-value store.
type KVStore interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	PutJSON(ctx context.Context, key string, value interface{}) error
}

// EventPublisher publishes domain events keyed for partitioning.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Metrics records provider outcomes.
type Metrics interface {
	RecordUpstream(provider, outcome string, seconds float64)
	RecordFallback(provider, kind string)
	RecordMessageSent(topic string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordUpstream(string, string, float64) {}
func (NopMetrics) RecordFallback(string, string)          {}
func (NopMetrics) RecordMessageSent(string)               {}
func (NopMetrics) RecordError(string)                     {}
func (NopMetrics) RecordLastPrice(string, float64)        {}
