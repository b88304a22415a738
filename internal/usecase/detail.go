package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"StockMetrics/internal/domain/models"
	domrepo "StockMetrics/internal/domain/repository"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
)

// DetailViewEvent is published once per served detail bundle.
type DetailViewEvent struct {
	EventID  string            `json:"eventId"`
	EntityID string            `json:"entityId"`
	Symbol   string            `json:"symbol"`
	Market   models.MarketKind `json:"market"`
	Stale    bool              `json:"stale"`
	ViewedAt time.Time         `json:"viewedAt"`
}

// DetailAdapters groups the fallback-protected sources a bundle is assembled from.
type DetailAdapters struct {
	Market       domrepo.MarketAdapter
	Fundamentals domrepo.FundamentalsAdapter
	News         domrepo.NewsAdapter
	Documents    domrepo.DocumentsAdapter
	FX           domrepo.FXAdapter
}

// DetailService resolves an entity and assembles its bundle from five
// independent adapters. Adapters absorb their own failures, so the fan-out
// never sees an error.
type DetailService struct {
	resolver  *Resolver
	adapters  DetailAdapters
	loader    *cache.Loader
	ttl       time.Duration
	publisher domrepo.EventPublisher
	topic     string
	logger    *logger.Logger
	now       func() time.Time
}

func NewDetailService(resolver *Resolver, adapters DetailAdapters, loader *cache.Loader, ttl time.Duration,
	publisher domrepo.EventPublisher, topic string, l *logger.Logger) *DetailService {
	return &DetailService{
		resolver:  resolver,
		adapters:  adapters,
		loader:    loader,
		ttl:       ttl,
		publisher: publisher,
		topic:     topic,
		logger:    l,
		now:       time.Now,
	}
}

// Resolver exposes the symbol resolver used for lookups.
func (s *DetailService) Resolver() *Resolver { return s.resolver }

// Adapters exposes the per-category adapters for the thin HTTP routes.
func (s *DetailService) Adapters() DetailAdapters { return s.adapters }

// GetDetail resolves symbolOrQuery and returns its bundle. The only error is ErrUnknownSymbol.
func (s *DetailService) GetDetail(ctx context.Context, symbolOrQuery string) (*models.StockDetailBundle, error) {
	entity, err := s.resolver.Resolve(ctx, symbolOrQuery)
	if err != nil {
		return nil, err
	}

	var bundle models.StockDetailBundle
	if s.loader != nil && s.ttl > 0 {
		bundle, err = cache.GetOrLoad(ctx, s.loader, cache.GenerateKey("detail", entity.ID), s.ttl,
			func(ctx context.Context) (models.StockDetailBundle, error) { return s.assemble(ctx, entity), nil })
		if err != nil {
			bundle = s.assemble(ctx, entity)
		}
	} else {
		bundle = s.assemble(ctx, entity)
	}

	s.publishView(ctx, bundle)
	return &bundle, nil
}

func (s *DetailService) assemble(ctx context.Context, e models.SearchEntity) models.StockDetailBundle {
	b := models.StockDetailBundle{Entity: e}

	var g errgroup.Group
	g.Go(func() error { b.Quote = s.adapters.Market.Quote(ctx, e); return nil })
	g.Go(func() error { b.History = s.adapters.Market.History(ctx, e, domrepo.RangeMax); return nil })
	g.Go(func() error { b.Fundamentals = s.adapters.Fundamentals.Fundamentals(ctx, e); return nil })
	g.Go(func() error { b.News = s.adapters.News.News(ctx, e); return nil })
	g.Go(func() error { b.Documents = s.adapters.Documents.Documents(ctx, e); return nil })
	_ = g.Wait()

	if b.News == nil {
		b.News = []models.NewsItem{}
	}
	if b.Documents == nil {
		b.Documents = []models.DocumentLink{}
	}
	return b
}

func (s *DetailService) publishView(ctx context.Context, b models.StockDetailBundle) {
	if s.publisher == nil || s.topic == "" {
		return
	}
	ev := DetailViewEvent{
		EventID:  uuid.NewString(),
		EntityID: b.Entity.ID,
		Symbol:   b.Entity.Symbol,
		Market:   b.Entity.Market,
		Stale:    b.Quote.Stale || b.History.Stale,
		ViewedAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, s.topic, b.Entity.ID, ev); err != nil {
		s.logger.Warn("detail: view event not published", logger.String("symbol", b.Entity.Symbol), logger.Error(err))
	}
}

// GetDetailIn returns the bundle plus the FX rate needed to show it in displayCurrency.
// The bundle keeps its source currency.
func (s *DetailService) GetDetailIn(ctx context.Context, symbolOrQuery, displayCurrency string) (*models.DetailResponse, error) {
	bundle, err := s.GetDetail(ctx, symbolOrQuery)
	if err != nil {
		return nil, err
	}
	resp := &models.DetailResponse{Bundle: bundle}
	if displayCurrency == "" {
		return resp, nil
	}

	resp.DisplayCurrency = displayCurrency
	native := bundle.Quote.Currency
	if native == "" {
		native = bundle.Entity.Market.Currency()
	}
	if native != displayCurrency {
		rate := s.adapters.FX.USDINR(ctx)
		resp.FX = &rate
	}
	return resp, nil
}

// Warm pre-loads the bundles of symbols into the cache, skipping unknown ones.
// Bundles that are still fresh are left alone unless refresh is set. It returns
// the number of bundles assembled.
func (s *DetailService) Warm(ctx context.Context, symbols []string, refresh bool) int {
	if s.loader == nil || s.ttl <= 0 {
		return 0
	}
	var warmed atomic.Int32
	for _, sym := range symbols {
		if ctx.Err() != nil {
			break
		}
		entity, err := s.resolver.ResolveBySymbol(ctx, sym)
		if err != nil {
			s.logger.Debug("detail: skip warm-up", logger.String("symbol", sym), logger.Error(err))
			continue
		}
		key := cache.GenerateKey("detail", entity.ID)
		if refresh {
			if err := s.loader.Invalidate(ctx, key); err != nil {
				s.logger.Warn("detail: warm-up invalidate failed", logger.String("symbol", sym), logger.Error(err))
			}
		}
		_, err = cache.GetOrLoad(ctx, s.loader, key, s.ttl, func(ctx context.Context) (models.StockDetailBundle, error) {
			warmed.Add(1)
			return s.assemble(ctx, entity), nil
		})
		if err != nil {
			s.logger.Warn("detail: warm-up load failed", logger.String("symbol", sym), logger.Error(err))
		}
	}
	return int(warmed.Load())
}
