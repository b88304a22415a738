package provider

import (
	"context"
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	"StockMetrics/internal/service/reference"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
)

type News struct {
	base
	source repository.NewsSource
	ttl    time.Duration
}

func NewNews(source repository.NewsSource, loader *cache.Loader, ttl TTLs, l *logger.Logger, m repository.Metrics) *News {
	return &News{base: newBase(loader, l, m), source: source, ttl: ttl.News}
}

// News returns relevant headlines, falling back to reference items when the
// feed fails or nothing passes the relevance filter.
func (n *News) News(ctx context.Context, e models.SearchEntity) []models.NewsItem {
	symbol := e.DisplaySymbol
	if symbol == "" {
		symbol = e.Symbol
	}
	items, _, err := load(ctx, &n.base, "news", e.Symbol, cache.GenerateKey("news", e.Symbol), n.ttl,
		func(ctx context.Context) ([]models.NewsItem, error) { return n.source.Search(ctx, e.Name, symbol) })
	if err == nil && len(items) > 0 {
		return items
	}
	n.fellBack("news", e.Symbol, FallbackReference)
	return reference.News(e, n.now())
}
