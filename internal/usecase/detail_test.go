package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/models"
	domrepo "StockMetrics/internal/domain/repository"
	"StockMetrics/internal/services/analytics"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/logger"
)

type fakeAdapters struct {
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeAdapters) tick() {
	f.calls.Add(1)
	time.Sleep(f.delay)
}

func (f *fakeAdapters) Quote(_ context.Context, e models.SearchEntity) models.Quote {
	f.tick()
	return models.Quote{Symbol: e.Symbol, Currency: e.Currency, Price: models.Float(100), Source: "fake"}
}

func (f *fakeAdapters) History(_ context.Context, e models.SearchEntity, r domrepo.Range) models.HistorySeries {
	f.tick()
	return models.HistorySeries{Symbol: e.Symbol, Currency: e.Currency, Source: "fake:" + string(r),
		Points: []models.PricePoint{{TS: "2024-01-01T00:00:00.000Z", Close: 100}}}
}

func (f *fakeAdapters) Fundamentals(_ context.Context, e models.SearchEntity) models.FundamentalsBundle {
	f.tick()
	return models.FundamentalsBundle{CompanyID: e.ID, CompanyName: e.Name, Source: "fake"}
}

func (f *fakeAdapters) News(context.Context, models.SearchEntity) []models.NewsItem {
	f.tick()
	return nil
}

func (f *fakeAdapters) Documents(context.Context, models.SearchEntity) []models.DocumentLink {
	f.tick()
	return []models.DocumentLink{{ID: "d1", Title: "10-K", Kind: models.DocAnnualReport}}
}

func (f *fakeAdapters) USDINR(context.Context) models.FXRate {
	return models.FXRate{Rate: 83.2, Source: "fake fx"}
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	keys   []string
	events []interface{}
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.events = append(p.events, value)
	return p.err
}

func newDetailService(t *testing.T, ttl time.Duration) (*DetailService, *fakeAdapters, *recordingPublisher) {
	t.Helper()
	f := &fakeAdapters{}
	pub := &recordingPublisher{}
	r, _ := newTestResolver()
	loader := cache.NewLoader(cache.NewMemoryCache())
	s := NewDetailService(r, DetailAdapters{Market: f, Fundamentals: f, News: f, Documents: f, FX: f},
		loader, ttl, pub, "detail-views", logger.Nop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, f, pub
}

func TestGetDetailAssemblesBundle(t *testing.T) {
	s, f, pub := newDetailService(t, time.Minute)

	b, err := s.GetDetail(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "us:AAPL", b.Entity.ID)
	assert.Equal(t, "fake", b.Quote.Source)
	assert.Equal(t, "fake:max", b.History.Source)
	assert.Equal(t, "us:AAPL", b.Fundamentals.CompanyID)
	assert.NotNil(t, b.News)
	assert.Empty(t, b.News)
	assert.Len(t, b.Documents, 1)
	assert.EqualValues(t, 5, f.calls.Load())

	require.Len(t, pub.events, 1)
	assert.Equal(t, "detail-views", pub.topics[0])
	assert.Equal(t, "us:AAPL", pub.keys[0])
	ev, ok := pub.events[0].(DetailViewEvent)
	require.True(t, ok)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "AAPL", ev.Symbol)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), ev.ViewedAt)
}

func TestGetDetailFansOutConcurrently(t *testing.T) {
	s, f, _ := newDetailService(t, 0)
	f.delay = 50 * time.Millisecond

	start := time.Now()
	_, err := s.GetDetail(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestGetDetailCachesBundle(t *testing.T) {
	s, f, pub := newDetailService(t, time.Minute)
	ctx := context.Background()

	_, err := s.GetDetail(ctx, "AAPL")
	require.NoError(t, err)
	_, err = s.GetDetail(ctx, "aapl")
	require.NoError(t, err)

	assert.EqualValues(t, 5, f.calls.Load(), "second view is served from the cache")
	assert.Len(t, pub.events, 2, "every view is published")
}

func TestGetDetailUnknownSymbol(t *testing.T) {
	s, f, pub := newDetailService(t, time.Minute)

	_, err := s.GetDetail(context.Background(), "AMFI:000")
	assert.ErrorIs(t, err, domrepo.ErrUnknownSymbol)
	assert.Zero(t, f.calls.Load())
	assert.Empty(t, pub.events)
}

func TestGetDetailPublishFailureIsNotFatal(t *testing.T) {
	s, _, pub := newDetailService(t, 0)
	pub.err = errors.New("broker down")

	b, err := s.GetDetail(context.Background(), "TCS")
	require.NoError(t, err)
	assert.Equal(t, "india:TCS", b.Entity.ID)
}

func TestGetDetailInDisplayCurrency(t *testing.T) {
	s, _, _ := newDetailService(t, 0)
	ctx := context.Background()

	resp, err := s.GetDetailIn(ctx, "AAPL", "INR")
	require.NoError(t, err)
	require.NotNil(t, resp.FX)
	assert.Equal(t, 83.2, resp.FX.Rate)
	assert.Equal(t, "INR", resp.DisplayCurrency)
	assert.Equal(t, models.CurrencyUSD, resp.Bundle.Quote.Currency, "bundle keeps its source currency")

	resp, err = s.GetDetailIn(ctx, "AAPL", "USD")
	require.NoError(t, err)
	assert.Nil(t, resp.FX)

	resp, err = s.GetDetailIn(ctx, "TCS", "")
	require.NoError(t, err)
	assert.Nil(t, resp.FX)
	assert.Empty(t, resp.DisplayCurrency)
}

func TestWarmUpHandler(t *testing.T) {
	s, f, _ := newDetailService(t, time.Minute)
	h := NewWarmUpHandler("warm-up", s, domrepo.NopMetrics{}, logger.Nop())
	ctx := context.Background()

	assert.Equal(t, "warm-up", h.Topic())
	msg, _ := json.Marshal(WarmUpRequest{Symbols: []string{"AAPL", "AMFI:000", "TCS.NS"}})
	require.NoError(t, h.Handle(ctx, msg))
	assert.EqualValues(t, 10, f.calls.Load())

	_, err := s.GetDetail(ctx, "TCS")
	require.NoError(t, err)
	assert.EqualValues(t, 10, f.calls.Load(), "warmed bundle is served from the cache")

	require.NoError(t, h.Handle(ctx, msg))
	assert.EqualValues(t, 10, f.calls.Load(), "fresh bundles are not rebuilt")

	refresh, _ := json.Marshal(WarmUpRequest{Symbols: []string{"TCS"}, Refresh: true})
	require.NoError(t, h.Handle(ctx, refresh))
	assert.EqualValues(t, 15, f.calls.Load(), "refresh rebuilds a cached bundle")

	assert.Error(t, h.Handle(ctx, []byte("{")))
	assert.NoError(t, h.Handle(ctx, []byte(`{"symbols":[]}`)))
}

func TestInsightsService(t *testing.T) {
	s, _, _ := newDetailService(t, 0)
	notes, err := analytics.LoadNotes()
	require.NoError(t, err)
	defer notes.Close()
	svc := NewInsightsService(s, analytics.NewHeuristic(notes), nil)
	ctx := context.Background()

	id, name := svc.Provider()
	assert.Equal(t, "heuristic", id)
	assert.Equal(t, "Rules-Based Analysis", name)

	ins, err := svc.Insights(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, models.RiskMedium, ins.Risk.RiskLevel, "a one-point history gets the default risk")

	bg, err := svc.Beginner(ctx, "AAPL")
	require.NoError(t, err)
	assert.NotEmpty(t, bg.Verdict)

	peers, err := svc.Peers(ctx, "AAPL")
	require.NoError(t, err)
	assert.NotEmpty(t, peers.Peers)

	_, err = svc.Insights(ctx, "AMFI:000")
	assert.ErrorIs(t, err, domrepo.ErrUnknownSymbol)

	sc := svc.Screener(ctx, "high roe")
	require.Len(t, sc.Filters, 1)
	assert.Equal(t, "roe", sc.Filters[0].Field)

	assert.Equal(t, []string{"Doc 2", "Doc 1"}, svc.Ask(ctx, "What is ROE?").Sources)
}
