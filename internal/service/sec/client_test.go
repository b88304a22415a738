package sec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	"StockMetrics/pkg/cache"
	xhttp "StockMetrics/pkg/http"
)

const tickersJSON = `{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."},"1":{"cik_str":789019,"ticker":"MSFT","title":"Microsoft"}}`

const factsJSON = `{"entityName":"Apple Inc.","facts":{"us-gaap":{
 "Revenues":{"units":{"USD":[
   {"end":"2022-09-24","val":394328,"fy":2022,"fp":"FY","form":"10-K","filed":"2022-10-28"},
   {"end":"2023-09-30","val":383285,"fy":2023,"fp":"FY","form":"10-K","filed":"2023-11-03"},
   {"end":"2023-09-30","val":383000,"fy":2024,"fp":"FY","form":"10-K","filed":"2024-11-01"},
   {"end":"2024-09-28","val":391035,"fy":2024,"fp":"FY","form":"10-K","filed":"2024-11-01"},
   {"end":"2024-12-28","val":124300,"fy":2025,"fp":"Q1","form":"10-Q","filed":"2025-01-31"}
 ]}},
 "NetIncomeLoss":{"units":{"USD":[
   {"end":"2023-09-30","val":96995,"fy":2023,"fp":"FY","filed":"2023-11-03"},
   {"end":"2024-09-28","val":93736,"fy":2024,"fp":"FY","filed":"2024-11-01"}
 ]}},
 "OperatingIncomeLoss":{"units":{"USD":[{"end":"2024-09-28","val":123216,"fy":2024,"fp":"FY"}]}},
 "Assets":{"units":{"USD":[{"end":"2024-09-28","val":364980,"fy":2024,"fp":"FY"}]}},
 "Liabilities":{"units":{"USD":[{"end":"2024-09-28","val":308030,"fy":2024,"fp":"FY"}]}},
 "EarningsPerShareDiluted":{"units":{"USD/shares":[{"end":"2024-09-28","val":6.08,"fy":2024,"fp":"FY"}]}}
}}}`

const submissionsJSON = `{"name":"Apple Inc.","sicDescription":"Electronic Computers","filings":{"recent":{
 "accessionNumber":["0000320193-25-000001","0000320193-25-000002","0000320193-24-000123","0000320193-24-000100"],
 "filingDate":["2025-01-31","2025-01-30","2024-11-01","2024-08-02"],
 "form":["8-K","4","10-K","10-Q"],
 "primaryDocument":["a8k.htm","form4.xml","aapl-20240928.htm","aapl-20240629.htm"]
}}}`

type fakeEdgar struct {
	srv         *httptest.Server
	tickerCalls atomic.Int32
	userAgent   atomic.Value
}

func newFakeEdgar(t *testing.T) *fakeEdgar {
	t.Helper()
	f := &fakeEdgar{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.userAgent.Store(r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/files/company_tickers.json":
			f.tickerCalls.Add(1)
			_, _ = w.Write([]byte(tickersJSON))
		case "/api/xbrl/companyfacts/CIK0000320193.json":
			_, _ = w.Write([]byte(factsJSON))
		case "/submissions/CIK0000320193.json":
			_, _ = w.Write([]byte(submissionsJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

var apple = models.SearchEntity{ID: "us:AAPL", Symbol: "AAPL", Market: models.MarketUS}

func metricMap(b models.FundamentalsBundle) map[string]models.MetricValue {
	out := map[string]models.MetricValue{}
	for _, m := range b.KeyMetrics {
		out[m.Key] = m
	}
	return out
}

func TestFundamentalsDerivesOnlyComputableRatios(t *testing.T) {
	f := newFakeEdgar(t)
	c := New(f.srv.URL, f.srv.URL, xhttp.NewClient(xhttp.WithUserAgent("Stock Metrics test@example.com")))

	b, err := c.Fundamentals(context.Background(), apple)
	require.NoError(t, err)
	assert.Equal(t, "Stock Metrics test@example.com", f.userAgent.Load())

	assert.Equal(t, "us:AAPL", b.CompanyID)
	assert.Equal(t, "Apple Inc.", b.CompanyName)
	assert.Equal(t, "Electronic Computers", b.Industry)
	assert.Equal(t, FundamentalsSource, b.Source)

	m := metricMap(b)
	assert.Equal(t, 391035.0, m["sales"].Value)
	assert.Equal(t, models.UnitCurrency, m["sales"].Unit)
	assert.Equal(t, "USD", m["sales"].Currency)
	assert.Equal(t, 93736.0, m["pat"].Value)
	assert.InDelta(t, 31.5099, m["opm"].Value, 1e-3)
	assert.InDelta(t, 2.0979, m["salesGrowth"].Value, 1e-3)
	assert.InDelta(t, -3.3599, m["profitGrowth"].Value, 1e-3)
	assert.Equal(t, 124300.0, m["salesLatestQuarter"].Value)
	assert.InDelta(t, 25.6825, m["roa"].Value, 1e-3)
	assert.Equal(t, 6.08, m["eps"].Value)

	// No equity tag: equity-based ratios are omitted rather than zeroed.
	assert.NotContains(t, m, "debtToEquity")
	assert.NotContains(t, m, "roe")
	assert.NotContains(t, m, "currentRatio")
	assert.NotContains(t, m, "priceToFcf")

	require.Len(t, b.Statements, 3, "cash flow has no values and is dropped")
	pl := b.Statements[0]
	assert.Equal(t, []string{"2022", "2023", "2024"}, pl.Years)
	assert.Equal(t, 383000.0, *pl.Rows[0].ValuesByYear["2023"], "last write wins per period end")
	assert.Nil(t, pl.Rows[1].ValuesByYear["2022"])
	assert.Equal(t, []string{"Q1 FY25"}, b.Statements[1].Years)
	assert.Equal(t, models.StatementBalanceSheet, b.Statements[2].Kind)
}

func TestTrendKeepsLastFivePeriods(t *testing.T) {
	var items []factItem
	for i, end := range []string{"2018-12-31", "2019-12-31", "2020-12-31", "2021-12-31", "2022-12-31", "2023-12-31", "2017-12-31"} {
		v := float64(i)
		items = append(items, factItem{End: end, Val: &v, FP: "FY"})
	}
	got := trend(items, annual)
	require.Len(t, got, 5)
	assert.Equal(t, "2019-12-31", got[0].End)
	assert.Equal(t, "2023-12-31", got[4].End)
}

func TestDocumentsFiltersForms(t *testing.T) {
	f := newFakeEdgar(t)
	c := New(f.srv.URL, f.srv.URL, xhttp.NewClient())

	docs, err := c.Documents(context.Background(), apple)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, models.DocFiling, docs[0].Kind)
	assert.Equal(t, "8-K 2025-01-31", docs[0].Title)
	assert.Equal(t, f.srv.URL+"/Archives/edgar/data/320193/000032019325000001/a8k.htm", docs[0].URL)
	assert.Equal(t, "AAPL-000032019325000001", docs[0].ID)
	assert.Equal(t, 2025, docs[0].Year)

	assert.Equal(t, models.DocAnnualReport, docs[1].Kind)
	assert.Equal(t, models.DocFiling, docs[2].Kind)
}

func TestTickerDirectoryIsCached(t *testing.T) {
	f := newFakeEdgar(t)
	loader := cache.NewLoader(cache.NewMemoryCache())
	c := New(f.srv.URL, f.srv.URL, xhttp.NewClient(), WithTickerCache(loader, time.Hour))

	_, err := c.CIK(context.Background(), "AAPL")
	require.NoError(t, err)
	cik, err := c.CIK(context.Background(), "msft")
	require.NoError(t, err)
	assert.Equal(t, "0000789019", cik)
	assert.Equal(t, int32(1), f.tickerCalls.Load())
}

func TestUnknownTicker(t *testing.T) {
	f := newFakeEdgar(t)
	c := New(f.srv.URL, f.srv.URL, xhttp.NewClient())
	_, err := c.Fundamentals(context.Background(), models.SearchEntity{Symbol: "ZZZZ"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrUpstreamUnavailable))
}
