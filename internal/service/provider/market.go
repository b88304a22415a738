package provider

import (
	"context"
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	"StockMetrics/internal/service/reference"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
	"StockMetrics/pkg/util"
)

// Market serves quotes and history. Equities go to the chart source, funds to
// the NAV source. On failure: last-known, then the history archive, then the
// synthesized reference series.
type Market struct {
	base
	equities repository.QuoteSource
	funds    repository.QuoteSource
	archive  repository.HistoryArchive
	ttl      TTLs
}

func NewMarket(equities, funds repository.QuoteSource, archive repository.HistoryArchive, loader *cache.Loader, ttl TTLs, l *logger.Logger, m repository.Metrics) *Market {
	return &Market{
		base:     newBase(loader, l, m),
		equities: equities,
		funds:    funds,
		archive:  archive,
		ttl:      ttl,
	}
}

func (m *Market) source(e models.SearchEntity) (repository.QuoteSource, string, time.Duration, time.Duration) {
	if e.IsFund() {
		return m.funds, "mfapi", m.ttl.NAV, m.ttl.NAV
	}
	return m.equities, "yahoo", m.ttl.Quote, m.ttl.History
}

func (m *Market) Quote(ctx context.Context, e models.SearchEntity) models.Quote {
	src, name, ttl, _ := m.source(e)
	q, stale, err := load(ctx, &m.base, name, e.Symbol, cache.GenerateKey("quote", e.Symbol), ttl,
		func(ctx context.Context) (models.Quote, error) { return src.Quote(ctx, e) })
	if err == nil {
		q.Stale = q.Stale || stale
		if q.Price != nil {
			m.metrics.RecordLastPrice(e.Symbol, *q.Price)
		}
		return q
	}

	m.fellBack(name, e.Symbol, FallbackReference)
	q = reference.QuoteFromHistory(e, reference.History(e, m.now()))
	q.Stale = true
	return q
}

func (m *Market) History(ctx context.Context, e models.SearchEntity, r repository.Range) models.HistorySeries {
	src, name, _, ttl := m.source(e)
	h, stale, err := load(ctx, &m.base, name, e.Symbol, cache.GenerateKeyWithParams("history", e.Symbol, r), ttl,
		func(ctx context.Context) (models.HistorySeries, error) {
			h, err := src.History(ctx, e, r)
			if err == nil {
				m.store(ctx, e.Symbol, barInterval(e, r), h)
			}
			return h, err
		})
	if err == nil {
		h.Stale = h.Stale || stale
		return h
	}

	from := m.rangeStart(r)
	if m.archive != nil {
		archived, aerr := m.archive.Load(ctx, e.Symbol, barInterval(e, r), from)
		if aerr == nil && len(archived.Points) > 0 {
			archived.Stale = true
			if archived.Currency == "" {
				archived.Currency = e.Currency
			}
			m.fellBack(name, e.Symbol, FallbackArchive)
			return archived
		}
		if aerr != nil {
			m.logger.Warn("provider: archive load failed", logger.String("symbol", e.Symbol), logger.Error(aerr))
		}
	}

	m.fellBack(name, e.Symbol, FallbackReference)
	h = trimFrom(reference.History(e, m.now()), from)
	h.Stale = true
	return h
}

// barInterval is the granularity History returns for e over r. Fund NAVs are
// always daily; equities follow the upstream window.
func barInterval(e models.SearchEntity, r repository.Range) string {
	if e.IsFund() {
		return "1d"
	}
	return r.Window().Interval
}

func (m *Market) store(ctx context.Context, symbol, interval string, h models.HistorySeries) {
	if m.archive == nil || len(h.Points) == 0 {
		return
	}
	if err := m.archive.Save(ctx, symbol, interval, h); err != nil {
		m.logger.Warn("provider: archive save failed", logger.String("symbol", symbol), logger.Error(err))
	}
}

// rangeStart is the zero time for unbounded ranges.
func (m *Market) rangeStart(r repository.Range) time.Time {
	days := r.Days()
	if days == 0 {
		return time.Time{}
	}
	return m.now().UTC().AddDate(0, 0, -days)
}

func trimFrom(h models.HistorySeries, from time.Time) models.HistorySeries {
	if from.IsZero() {
		return h
	}
	cut := util.ISO(from)
	for i, p := range h.Points {
		if p.TS >= cut {
			h.Points = h.Points[i:]
			return h
		}
	}
	h.Points = h.Points[:0]
	return h
}
