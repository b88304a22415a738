package provider

import (
	"time"

	"StockMetrics/internal/domain/repository"
	"StockMetrics/internal/service/fx"
	"StockMetrics/internal/service/mfapi"
	"StockMetrics/internal/service/news"
	"StockMetrics/internal/service/sec"
	"StockMetrics/internal/service/symbolindex"
	"StockMetrics/internal/service/yahoo"
	"StockMetrics/pkg/cache"
	"StockMetrics/pkg/config"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/logger"
)

// Set is every adapter the core consumes.
type Set struct {
	Market  *Market
	Filings *Filings
	News    *News
	FX      *FX
	Indexes []repository.SymbolIndex
}

// TTLsFrom reads TTLs from config, keeping defaults for unset entries.
func TTLsFrom(c config.ProvidersConfig) TTLs {
	t := DefaultTTLs()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&t.Quote, c.TTL.Quote)
	set(&t.History, c.TTL.History)
	set(&t.NAV, c.TTL.NAV)
	set(&t.Fundamentals, c.TTL.Fundamentals)
	set(&t.Documents, c.TTL.Documents)
	set(&t.News, c.TTL.News)
	set(&t.FX, c.TTL.FX)
	set(&t.SearchIndex, c.TTL.SearchIndex)
	return t
}

func httpClient(c config.ProvidersConfig, ua string, rps float64) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(c.Timeout),
		xhttp.WithUserAgent(ua),
		xhttp.WithRateLimit(rps, 2),
	)
}

// NewSet builds the upstream clients from config and wraps each in its adapter.
func NewSet(c config.ProvidersConfig, loader *cache.Loader, kv repository.KVStore, archive repository.HistoryArchive, l *logger.Logger, m repository.Metrics) *Set {
	ttl := TTLsFrom(c)
	urls := c.BaseURLs

	general := httpClient(c, c.UserAgent, 0)
	yahooHTTP := httpClient(c, c.UserAgent, c.RateLimit.Yahoo)
	mfHTTP := httpClient(c, c.UserAgent, c.RateLimit.MFAPI)
	newsHTTP := httpClient(c, c.UserAgent, c.RateLimit.News)
	secUA := c.SECUserAgent
	if secUA == "" {
		secUA = c.UserAgent
	}
	secHTTP := httpClient(c, secUA, c.RateLimit.SEC)

	equities := yahoo.New(urls.Yahoo, yahooHTTP)
	funds := mfapi.New(urls.MFAPI, mfHTTP)
	tickerTTL := c.TTL.SECTickers
	if tickerTTL <= 0 {
		tickerTTL = 24 * time.Hour
	}
	filings := sec.New(urls.SECData, urls.SECWWW, secHTTP, sec.WithTickerCache(loader, tickerTTL))

	return &Set{
		Market:  NewMarket(equities, funds, archive, loader, ttl, l, m),
		Filings: NewFilings(filings, loader, ttl, l, m),
		News:    NewNews(news.New(urls.News, newsHTTP), loader, ttl, l, m),
		FX:      NewFX(fx.New(urls.FX, general), kv, loader, ttl, l, m),
		Indexes: []repository.SymbolIndex{
			NewSymbolIndex(symbolindex.NewUSLoader(urls.NASDAQ, general), loader, ttl, l, m),
			NewSymbolIndex(symbolindex.NewIndiaLoader(urls.NSE, general), loader, ttl, l, m),
			NewSymbolIndex(symbolindex.NewFundLoader(urls.MFAPI, urls.AMFI, mfHTTP, l), loader, ttl, l, m),
		},
	}
}
