package provider

import (
	"context"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	"StockMetrics/internal/service/reference"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
)

const (
	UnavailableSource = "Fundamentals currently unavailable"
	unavailableNote   = "Price and historical data are available, but fundamental data is not currently available for this security."
)

// Filings serves fundamentals and documents. Only US equities have a live
// filings source; everything else comes from the reference dataset.
type Filings struct {
	base
	source repository.FundamentalsSource
	ttl    TTLs
}

func NewFilings(source repository.FundamentalsSource, loader *cache.Loader, ttl TTLs, l *logger.Logger, m repository.Metrics) *Filings {
	return &Filings{base: newBase(loader, l, m), source: source, ttl: ttl}
}

func (f *Filings) live(e models.SearchEntity) bool {
	return f.source != nil && e.Market == models.MarketUS && !e.IsFund()
}

func (f *Filings) Fundamentals(ctx context.Context, e models.SearchEntity) models.FundamentalsBundle {
	ref, hasRef := reference.Fundamentals(e.Symbol)

	if f.live(e) {
		live, stale, err := load(ctx, &f.base, "sec", e.Symbol, cache.GenerateKey("fundamentals", e.Symbol), f.ttl.Fundamentals,
			func(ctx context.Context) (models.FundamentalsBundle, error) { return f.source.Fundamentals(ctx, e) })
		if err == nil {
			if stale {
				live.Notes = append(live.Notes, "Showing the last fundamentals retrieved; the filings source is currently unavailable.")
			}
			if !hasRef {
				return withIdentity(live, e)
			}
			return mergeFundamentals(live, ref)
		}
	}

	if hasRef {
		f.fellBack("fundamentals", e.Symbol, FallbackReference)
		return ref
	}
	return unavailableFundamentals(e)
}

// mergeFundamentals lays live filings data over the reference bundle. Live
// metrics and statements win when present; reference shareholding and peers stay.
func mergeFundamentals(live, ref models.FundamentalsBundle) models.FundamentalsBundle {
	out := ref
	if live.CompanyName != "" {
		out.CompanyName = live.CompanyName
	}
	if live.MarketCap != nil {
		out.MarketCap = live.MarketCap
	}
	if len(live.KeyMetrics) > 0 {
		out.KeyMetrics = live.KeyMetrics
		out.Currency = live.Currency
		out.Source = live.Source
	}
	if len(live.Statements) > 0 {
		out.Statements = live.Statements
	}
	if live.Shareholding != nil && out.Shareholding == nil {
		out.Shareholding = live.Shareholding
	}
	out.Notes = append(append([]string{}, live.Notes...), ref.Notes...)
	return out
}

func withIdentity(b models.FundamentalsBundle, e models.SearchEntity) models.FundamentalsBundle {
	if b.CompanyID == "" {
		b.CompanyID = e.ID
	}
	if b.CompanyName == "" {
		b.CompanyName = e.Name
	}
	if b.Summary == "" {
		b.Summary = e.Summary
	}
	if b.Sector == "" {
		b.Sector = e.Sector
	}
	if b.Industry == "" {
		b.Industry = e.Industry
	}
	if b.Website == "" {
		b.Website = e.Website
	}
	if b.Currency == "" {
		b.Currency = e.Currency
	}
	return b
}

func unavailableFundamentals(e models.SearchEntity) models.FundamentalsBundle {
	return withIdentity(models.FundamentalsBundle{
		KeyMetrics: []models.MetricValue{},
		Statements: []models.FinancialStatementTable{},
		Source:     UnavailableSource,
		Notes:      []string{unavailableNote},
	}, e)
}

func (f *Filings) Documents(ctx context.Context, e models.SearchEntity) []models.DocumentLink {
	if f.live(e) {
		docs, _, err := load(ctx, &f.base, "sec", e.Symbol, cache.GenerateKey("documents", e.Symbol), f.ttl.Documents,
			func(ctx context.Context) ([]models.DocumentLink, error) { return f.source.Documents(ctx, e) })
		if err == nil && len(docs) > 0 {
			return docs
		}
		if err == nil {
			f.logger.Debug("provider: no filings listed", logger.String("symbol", e.Symbol))
		}
		f.fellBack("documents", e.Symbol, FallbackReference)
	}
	return reference.Documents(e)
}
