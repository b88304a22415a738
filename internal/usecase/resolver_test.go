package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/models"
	domrepo "StockMetrics/internal/domain/repository"
	"StockMetrics/pkg/logger"
)

type fakeIndex struct {
	market   models.MarketKind
	entities []models.SearchEntity
	calls    int
}

func (f *fakeIndex) Market() models.MarketKind { return f.market }

func (f *fakeIndex) Entities(context.Context) []models.SearchEntity {
	f.calls++
	return f.entities
}

func usStock(symbol, name string) models.SearchEntity {
	return models.SearchEntity{
		ID: "us:" + symbol, Symbol: symbol, DisplaySymbol: symbol, Name: name,
		Market: models.MarketUS, Exchange: models.ExchangeNASDAQ, Currency: models.CurrencyUSD,
		Type: models.TypeStock, Aliases: []string{symbol, name},
	}
}

func newTestResolver() (*Resolver, map[models.MarketKind]*fakeIndex) {
	us := &fakeIndex{market: models.MarketUS, entities: []models.SearchEntity{
		usStock("AAPL", "Apple Inc. Common Stock"),
		usStock("NVDA", "NVIDIA Corporation"),
		usStock("ZZZ", "Big AAPL Fans Trust"),
	}}
	india := &fakeIndex{market: models.MarketIndia, entities: []models.SearchEntity{{
		ID: "india:SBIN", Symbol: "SBIN.NS", DisplaySymbol: "SBIN", Name: "State Bank of India",
		Market: models.MarketIndia, Exchange: models.ExchangeNSE, Type: models.TypeStock,
		Aliases: []string{"SBIN", "State Bank of India"},
	}}}
	mf := &fakeIndex{market: models.MarketMF, entities: []models.SearchEntity{{
		ID: "mf:AMFI_119551", Symbol: "AMFI:119551", DisplaySymbol: "119551", Name: "Aditya Birla Liquid Fund",
		Market: models.MarketMF, Exchange: models.ExchangeMF, Type: models.TypeMutualFund,
		Aliases: []string{"119551", "Aditya Birla Liquid Fund", "mutual fund"},
	}}}
	r := NewResolver([]domrepo.SymbolIndex{us, india, mf}, logger.Nop())
	return r, map[models.MarketKind]*fakeIndex{models.MarketUS: us, models.MarketIndia: india, models.MarketMF: mf}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "m&m ltd. bse:500520", normalizeText("  M&M   Ltd.!! BSE:500520 "))
	assert.Equal(t, "", normalizeText("?!"))
}

func TestScoreEntity(t *testing.T) {
	apple := models.SearchEntity{Symbol: "AAPL", DisplaySymbol: "AAPL", Name: "Apple Inc.", Aliases: []string{"apple"}, Market: models.MarketUS}
	substring := models.SearchEntity{Symbol: "ZZZ", DisplaySymbol: "ZZZ", Name: "Big AAPL Fans", Market: models.MarketUS}

	assert.Equal(t, 232, scoreEntity(apple, "AAPL"))
	assert.Equal(t, 72, scoreEntity(substring, "AAPL"))
	assert.Greater(t, scoreEntity(apple, "AAPL"), scoreEntity(substring, "AAPL"))

	assert.Equal(t, 212, scoreEntity(apple, "apple"))
	assert.Equal(t, 0, scoreEntity(apple, "   "))
	assert.Equal(t, 0, scoreEntity(apple, "tesla"))

	hdfc := models.SearchEntity{Symbol: "HDFCBANK.NS", DisplaySymbol: "HDFCBANK", Name: "HDFC Bank Ltd", Market: models.MarketIndia}
	assert.Equal(t, 17, scoreEntity(hdfc, "hdfc nse"))

	fund := models.SearchEntity{Symbol: "AMFI:1", DisplaySymbol: "1", Name: "Axis Liquid Fund", Market: models.MarketMF}
	assert.Equal(t, 12+12+5, scoreEntity(fund, "liquid fund direct"))
}

func TestSearchRanksExactSymbolFirst(t *testing.T) {
	r, _ := newTestResolver()

	got := r.Search(context.Background(), "AAPL", models.MarketUS, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "ZZZ", got[1].Symbol)
}

func TestSearchAllMarketsDedupesBySymbol(t *testing.T) {
	r, _ := newTestResolver()

	got := r.Search(context.Background(), "aapl", "", 10)
	var symbols []string
	for _, e := range got {
		symbols = append(symbols, e.Symbol)
	}
	assert.Equal(t, []string{"AAPL", "ZZZ"}, symbols)
	assert.Equal(t, "us:AAPL", got[0].ID)
	assert.Equal(t, "Apple Inc. Common Stock", got[0].Name, "the higher scoring duplicate wins")
}

func TestSearchTieBreaksByName(t *testing.T) {
	idx := &fakeIndex{market: models.MarketUS, entities: []models.SearchEntity{
		usStock("BBB", "zeta bank"),
		usStock("CCC", "Alpha bank"),
		usStock("DDD", "beta bank"),
	}}
	r := NewResolver([]domrepo.SymbolIndex{idx}, logger.Nop())

	got := r.Search(context.Background(), "bank", models.MarketUS, 5)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Alpha bank", "beta bank", "zeta bank"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestSearchEmptyQueryAndLimits(t *testing.T) {
	idx := &fakeIndex{market: models.MarketUS}
	for i := 0; i < 80; i++ {
		idx.entities = append(idx.entities, usStock(fmt.Sprintf("T%02d", i), fmt.Sprintf("Test Company %02d", i)))
	}
	r := NewResolver([]domrepo.SymbolIndex{idx}, logger.Nop())
	ctx := context.Background()

	head := r.Search(ctx, "  ", models.MarketUS, 3)
	require.Len(t, head, 3)
	assert.Equal(t, "T00", head[0].Symbol)

	assert.Len(t, r.Search(ctx, "test", models.MarketUS, 0), DefaultSearchLimit)
	assert.Len(t, r.Search(ctx, "test", models.MarketUS, 500), MaxSearchLimit)

	all := r.Search(ctx, "", "", 3)
	require.Len(t, all, 3)
	assert.Equal(t, "india:HDFCBANK", all[0].ID, "the reference list leads the combined index")
}

func TestSearchMarketHint(t *testing.T) {
	r, _ := newTestResolver()

	got := r.Search(context.Background(), "mutual fund", "", 3)
	require.NotEmpty(t, got)
	for _, e := range got {
		assert.Equal(t, models.MarketMF, e.Market)
	}
}

func TestResolveBySymbol(t *testing.T) {
	r, idx := newTestResolver()
	ctx := context.Background()

	tests := []struct {
		in       string
		wantID   string
		wantExch string
	}{
		{"aapl", "us:AAPL", ""},
		{"HDFCBANK.NS", "india:HDFCBANK", ""},
		{"AMFI:119551", "mf:AMFI_119551", ""},
		{"SBIN.NS", "india:SBIN", models.ExchangeNSE},
		{"XYZ.NS", "india:XYZ", models.ExchangeNSE},
		{"ABC.BO", "india:ABC:BSE", models.ExchangeBSE},
		{"NVDA", "us:NVDA", models.ExchangeNASDAQ},
		{"SBIN", "india:SBIN", models.ExchangeNSE},
		{"119551", "mf:AMFI_119551", models.ExchangeMF},
		{"QQQQ", "us:QQQQ", models.ExchangeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := r.ResolveBySymbol(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, e.ID)
			if tt.wantExch != "" {
				assert.Equal(t, tt.wantExch, e.Exchange)
			}
		})
	}

	stub, err := r.ResolveBySymbol(ctx, "ABC.BO")
	require.NoError(t, err)
	assert.Equal(t, "ABC.BO", stub.Symbol)
	assert.Equal(t, models.CurrencyINR, stub.Currency)
	assert.Greater(t, idx[models.MarketUS].calls, 0)
}

func TestResolveBySymbolUnknown(t *testing.T) {
	r, _ := newTestResolver()
	ctx := context.Background()

	for _, in := range []string{"", "AMFI:999", "not a ticker", "12345"} {
		_, err := r.ResolveBySymbol(ctx, in)
		assert.ErrorIs(t, err, domrepo.ErrUnknownSymbol, in)
	}
}

func TestResolveFreeText(t *testing.T) {
	r, _ := newTestResolver()
	ctx := context.Background()

	e, err := r.Resolve(ctx, "state bank of india")
	require.NoError(t, err)
	assert.Equal(t, "india:SBIN", e.ID)

	e, err = r.Resolve(ctx, "TCS")
	require.NoError(t, err)
	assert.Equal(t, "india:TCS", e.ID)

	e, err = r.Resolve(ctx, "nvidia")
	require.NoError(t, err)
	assert.Equal(t, "us:NVDA", e.ID, "a company name finds the listed entity before any stub")
	assert.Equal(t, models.ExchangeNASDAQ, e.Exchange)

	e, err = r.Resolve(ctx, "QXQX")
	require.NoError(t, err)
	assert.Equal(t, "us:QXQX", e.ID, "an unmatched ticker still gets a stub")
	assert.Equal(t, models.ExchangeUnknown, e.Exchange)

	_, err = r.Resolve(ctx, "?? !!")
	assert.ErrorIs(t, err, domrepo.ErrUnknownSymbol)
}
