package provider

import (
	"context"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	"StockMetrics/internal/service/reference"
	"StockMetrics/internal/service/symbolindex"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
)

// SymbolIndex caches one market's universe and falls back to the embedded
// reference entities so search never comes back empty.
type SymbolIndex struct {
	base
	source symbolindex.Loader
	ttl    TTLs
}

func NewSymbolIndex(source symbolindex.Loader, loader *cache.Loader, ttl TTLs, l *logger.Logger, m repository.Metrics) *SymbolIndex {
	return &SymbolIndex{base: newBase(loader, l, m), source: source, ttl: ttl}
}

func (s *SymbolIndex) Market() models.MarketKind { return s.source.Market() }

func (s *SymbolIndex) Entities(ctx context.Context) []models.SearchEntity {
	market := s.source.Market()
	name := "index-" + string(market)
	entities, _, err := load(ctx, &s.base, name, string(market), cache.GenerateKey("index", string(market)), s.ttl.SearchIndex,
		s.source.Load)
	if err == nil && len(entities) > 0 {
		return entities
	}
	s.fellBack(name, string(market), FallbackReference)
	return reference.UniverseFor(market)
}
