package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	"StockMetrics/internal/service/reference"
	kvcache "StockMetrics/internal/service/cache"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
)

var errDown = fmt.Errorf("fake: %w", repository.ErrUpstreamUnavailable)

type fakeQuotes struct {
	fail    bool
	quotes  int
	history int
	series  models.HistorySeries
}

func (f *fakeQuotes) Quote(_ context.Context, e models.SearchEntity) (models.Quote, error) {
	f.quotes++
	if f.fail {
		return models.Quote{}, errDown
	}
	return models.Quote{Symbol: e.Symbol, Currency: e.Currency, Price: models.Float(101.5), Source: "fake"}, nil
}

func (f *fakeQuotes) History(_ context.Context, e models.SearchEntity, _ repository.Range) (models.HistorySeries, error) {
	f.history++
	if f.fail {
		return models.HistorySeries{}, errDown
	}
	return f.series, nil
}

type fakeArchive struct {
	saved  map[string]models.HistorySeries
	loaded int
}

func (a *fakeArchive) Save(_ context.Context, symbol, interval string, s models.HistorySeries) error {
	a.saved[symbol+"|"+interval] = s
	return nil
}

func (a *fakeArchive) Load(_ context.Context, symbol, interval string, _ time.Time) (models.HistorySeries, error) {
	a.loaded++
	s, ok := a.saved[symbol+"|"+interval]
	if !ok {
		return models.HistorySeries{}, errors.New("not archived")
	}
	return s, nil
}

type fakeMetrics struct {
	repository.NopMetrics
	fallbacks []string
}

func (m *fakeMetrics) RecordFallback(provider, kind string) {
	m.fallbacks = append(m.fallbacks, provider+"/"+kind)
}

func newLoader() *cache.Loader {
	return cache.NewLoader(cache.NewMemoryCache())
}

func apple(t *testing.T) models.SearchEntity {
	e, ok := reference.Lookup("AAPL")
	require.True(t, ok)
	return e
}

func series(symbol string) models.HistorySeries {
	return models.HistorySeries{
		Symbol:   symbol,
		Currency: models.CurrencyUSD,
		Source:   "fake",
		Points: []models.PricePoint{
			{TS: "2024-06-03T00:00:00Z", Close: 100},
			{TS: "2024-06-04T00:00:00Z", Close: 102},
		},
	}
}

func TestMarketQuoteFallbackChain(t *testing.T) {
	ctx := context.Background()
	e := apple(t)
	src := &fakeQuotes{}
	metrics := &fakeMetrics{}
	loader := newLoader()
	m := NewMarket(src, &fakeQuotes{}, nil, loader, DefaultTTLs(), logger.Nop(), metrics)

	q := m.Quote(ctx, e)
	assert.Equal(t, 101.5, *q.Price)
	assert.False(t, q.Stale)

	m.Quote(ctx, e)
	assert.Equal(t, 1, src.quotes, "second call served from cache")

	src.fail = true
	require.NoError(t, loader.Invalidate(ctx, "quote:AAPL"))
	q = m.Quote(ctx, e)
	assert.Equal(t, 101.5, *q.Price)
	assert.True(t, q.Stale)

	fresh := NewMarket(src, &fakeQuotes{}, nil, newLoader(), DefaultTTLs(), logger.Nop(), metrics)
	q = fresh.Quote(ctx, e)
	require.NotNil(t, q.Price)
	assert.True(t, q.Stale)
	assert.Equal(t, "Reference historical series", q.Source)
	assert.Equal(t, []string{"yahoo/last_known", "yahoo/reference"}, metrics.fallbacks)
}

func TestMarketRoutesFundsToNAVSource(t *testing.T) {
	ctx := context.Background()
	equities, funds := &fakeQuotes{}, &fakeQuotes{series: series("UTI-NIFTY-50-IDX")}
	m := NewMarket(equities, funds, nil, newLoader(), DefaultTTLs(), logger.Nop(), nil)

	fund, ok := reference.Lookup("UTI-NIFTY-50-IDX")
	require.True(t, ok)
	h := m.History(ctx, fund, repository.RangeMax)

	assert.Len(t, h.Points, 2)
	assert.Equal(t, 1, funds.history)
	assert.Zero(t, equities.history)
}

func TestMarketHistoryArchiveThenReference(t *testing.T) {
	ctx := context.Background()
	e := apple(t)
	archive := &fakeArchive{saved: map[string]models.HistorySeries{}}
	src := &fakeQuotes{series: series("AAPL")}

	live := NewMarket(src, &fakeQuotes{}, archive, newLoader(), DefaultTTLs(), logger.Nop(), nil)
	h := live.History(ctx, e, repository.Range1Y)
	assert.False(t, h.Stale)
	require.Contains(t, archive.saved, "AAPL|1d", "fresh loads are archived under their bar interval")

	src.fail = true
	cold := NewMarket(src, &fakeQuotes{}, archive, newLoader(), DefaultTTLs(), logger.Nop(), nil)
	h = cold.History(ctx, e, repository.Range1Y)
	assert.True(t, h.Stale)
	assert.Len(t, h.Points, 2)
	assert.Equal(t, 1, archive.loaded)

	h = cold.History(ctx, e, repository.Range5Y)
	assert.Equal(t, 2, archive.loaded)
	assert.Greater(t, len(h.Points), 2, "weekly requests never read archived daily bars")

	empty := &fakeArchive{saved: map[string]models.HistorySeries{}}
	ref := NewMarket(src, &fakeQuotes{}, empty, newLoader(), DefaultTTLs(), logger.Nop(), nil)
	ref.now = func() time.Time { return time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC) }
	h = ref.History(ctx, e, repository.Range1Y)
	assert.True(t, h.Stale)
	require.NotEmpty(t, h.Points)
	assert.GreaterOrEqual(t, h.Points[0].TS, "2023-06-04T00:00:00Z")
	for i := 1; i < len(h.Points); i++ {
		assert.LessOrEqual(t, h.Points[i-1].TS, h.Points[i].TS)
	}
}

type fakeRates struct {
	fail  bool
	calls int
}

func (f *fakeRates) USDRate(_ context.Context, currency string) (models.FXRate, error) {
	f.calls++
	if f.fail {
		return models.FXRate{}, errDown
	}
	return models.FXRate{Rate: 83.42, Source: "open.er-api.com", Timestamp: "2024-06-05T00:00:00Z"}, nil
}

func TestFXConstantWhenNothingKnown(t *testing.T) {
	fx := NewFX(&fakeRates{fail: true}, kvcache.NewMemoryKV(), newLoader(), DefaultTTLs(), logger.Nop(), nil)

	rate := fx.USDINR(context.Background())
	assert.Equal(t, ReferenceUSDINR, rate.Rate)
	assert.Equal(t, ReferenceSource, rate.Source)
	assert.True(t, rate.Stale)
}

func TestFXPersistedLastKnown(t *testing.T) {
	ctx := context.Background()
	kv := kvcache.NewMemoryKV()
	src := &fakeRates{}

	first := NewFX(src, kv, newLoader(), DefaultTTLs(), logger.Nop(), nil)
	rate := first.USDINR(ctx)
	assert.Equal(t, 83.42, rate.Rate)
	assert.False(t, rate.Stale)

	// A restarted process has an empty cache but the same store.
	src.fail = true
	restarted := NewFX(src, kv, newLoader(), DefaultTTLs(), logger.Nop(), nil)
	rate = restarted.USDINR(ctx)
	assert.Equal(t, 83.42, rate.Rate)
	assert.True(t, rate.Stale)
}

type fakeFilings struct {
	fail   bool
	bundle models.FundamentalsBundle
	docs   []models.DocumentLink
}

func (f *fakeFilings) Fundamentals(context.Context, models.SearchEntity) (models.FundamentalsBundle, error) {
	if f.fail {
		return models.FundamentalsBundle{}, errDown
	}
	return f.bundle, nil
}

func (f *fakeFilings) Documents(context.Context, models.SearchEntity) ([]models.DocumentLink, error) {
	if f.fail {
		return nil, errDown
	}
	return f.docs, nil
}

func TestFundamentalsMergeLiveOverReference(t *testing.T) {
	live := models.FundamentalsBundle{
		CompanyName: "Apple Inc.",
		Currency:    models.CurrencyUSD,
		KeyMetrics:  models.MapMetricEntries(map[string]*float64{"sales": models.Float(391035)}, models.CurrencyUSD),
		Source:      "SEC EDGAR + derived ratios",
		Notes:       []string{"live note"},
	}
	f := NewFilings(&fakeFilings{bundle: live}, newLoader(), DefaultTTLs(), logger.Nop(), nil)

	b := f.Fundamentals(context.Background(), apple(t))
	require.Len(t, b.KeyMetrics, 1)
	assert.Equal(t, "sales", b.KeyMetrics[0].Key)
	assert.Equal(t, "SEC EDGAR + derived ratios", b.Source)
	assert.NotEmpty(t, b.Statements, "reference statements kept when live has none")
	assert.NotNil(t, b.Shareholding)
	assert.Equal(t, []string{"MSFT", "GOOGL"}, b.PeerSymbols)
	assert.Equal(t, "live note", b.Notes[0])
	assert.Greater(t, len(b.Notes), 1)
}

func TestFundamentalsFallbacks(t *testing.T) {
	ctx := context.Background()
	f := NewFilings(&fakeFilings{fail: true}, newLoader(), DefaultTTLs(), logger.Nop(), nil)

	b := f.Fundamentals(ctx, apple(t))
	assert.Equal(t, "Reference fundamentals dataset", b.Source)
	assert.NotEmpty(t, b.KeyMetrics)

	unknown := models.SearchEntity{ID: "us:ZZZZ", Symbol: "ZZZZ", Name: "ZZZZ", Market: models.MarketUS, Currency: models.CurrencyUSD, Type: models.TypeStock}
	b = f.Fundamentals(ctx, unknown)
	assert.Equal(t, UnavailableSource, b.Source)
	assert.Empty(t, b.KeyMetrics)
	assert.NotNil(t, b.KeyMetrics)
	assert.Equal(t, "ZZZZ", b.CompanyName)

	fund, ok := reference.Lookup("UTI-NIFTY-50-IDX")
	require.True(t, ok)
	assert.Equal(t, UnavailableSource, f.Fundamentals(ctx, fund).Source)
}

func TestDocumentsEmptyLiveFallsBackToReference(t *testing.T) {
	f := NewFilings(&fakeFilings{docs: []models.DocumentLink{}}, newLoader(), DefaultTTLs(), logger.Nop(), nil)
	e := apple(t)

	docs := f.Documents(context.Background(), e)
	assert.Equal(t, reference.Documents(e), docs)
}

type fakeNews struct {
	items []models.NewsItem
	query []string
}

func (f *fakeNews) Search(_ context.Context, companyName, symbol string) ([]models.NewsItem, error) {
	f.query = []string{companyName, symbol}
	return f.items, nil
}

func TestNewsUsesDisplaySymbolAndFallsBack(t *testing.T) {
	src := &fakeNews{}
	n := NewNews(src, newLoader(), DefaultTTLs(), logger.Nop(), nil)
	e, ok := reference.Lookup("HDFCBANK.NS")
	require.True(t, ok)

	items := n.News(context.Background(), e)
	assert.Equal(t, []string{e.Name, "HDFCBANK"}, src.query)
	assert.Len(t, items, 2, "reference headlines when the feed has nothing relevant")
}

type fakeIndex struct{ market models.MarketKind }

func (f fakeIndex) Market() models.MarketKind { return f.market }
func (f fakeIndex) Load(context.Context) ([]models.SearchEntity, error) {
	return nil, errDown
}

func TestSymbolIndexFallsBackToReferenceUniverse(t *testing.T) {
	idx := NewSymbolIndex(fakeIndex{market: models.MarketIndia}, newLoader(), DefaultTTLs(), logger.Nop(), nil)

	got := idx.Entities(context.Background())
	assert.Equal(t, reference.UniverseFor(models.MarketIndia), got)
	for _, e := range got {
		assert.Equal(t, models.MarketIndia, e.Market)
	}
}
