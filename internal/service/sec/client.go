// Package sec reads company facts and filings from SEC EDGAR.
package sec

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockMetrics/internal/domain/repository"
	"StockMetrics/pkg/cache"
	xhttp "StockMetrics/pkg/http"
)

const tickerMapKey = "sec:tickers"

type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// Client implements repository.FundamentalsSource for US equities.
type Client struct {
	dataURL   string
	wwwURL    string
	http      *xhttp.Client
	loader    *cache.Loader
	tickerTTL time.Duration
	now       func() time.Time
}

// Option configures Client.
type Option func(*Client)

// WithTickerCache keeps the ticker directory in loader for ttl.
func WithTickerCache(loader *cache.Loader, ttl time.Duration) Option {
	return func(c *Client) {
		c.loader = loader
		c.tickerTTL = ttl
	}
}

// New creates an EDGAR client. dataURL serves the JSON APIs (data.sec.gov), wwwURL
// serves the ticker directory and filing archives (www.sec.gov).
func New(dataURL, wwwURL string, httpClient *xhttp.Client, opts ...Option) *Client {
	c := &Client{
		dataURL:   strings.TrimRight(dataURL, "/"),
		wwwURL:    strings.TrimRight(wwwURL, "/"),
		http:      httpClient,
		tickerTTL: 24 * time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     url,
		Headers: map[string]string{"Accept": "application/json"},
	}, dest)
	if err != nil {
		return fmt.Errorf("sec %s: %w: %w", url, repository.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (c *Client) tickerMap(ctx context.Context) (map[string]tickerEntry, error) {
	load := func(ctx context.Context) (map[string]tickerEntry, error) {
		var m map[string]tickerEntry
		if err := c.getJSON(ctx, c.wwwURL+"/files/company_tickers.json", &m); err != nil {
			return nil, err
		}
		return m, nil
	}
	if c.loader == nil {
		return load(ctx)
	}
	return cache.GetOrLoad(ctx, c.loader, tickerMapKey, c.tickerTTL, load)
}

// CIK returns the zero-padded ten digit identifier for ticker.
func (c *Client) CIK(ctx context.Context, ticker string) (string, error) {
	m, err := c.tickerMap(ctx)
	if err != nil {
		return "", err
	}
	for _, e := range m {
		if strings.EqualFold(e.Ticker, ticker) {
			return fmt.Sprintf("%010d", e.CIK), nil
		}
	}
	return "", fmt.Errorf("sec: %w: ticker %s not in directory", repository.ErrUpstreamUnavailable, ticker)
}

func (c *Client) submissions(ctx context.Context, cik string) (*submissionsResponse, error) {
	var s submissionsResponse
	if err := c.getJSON(ctx, c.dataURL+"/submissions/CIK"+cik+".json", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) companyFacts(ctx context.Context, cik string) (*factsResponse, error) {
	var f factsResponse
	if err := c.getJSON(ctx, c.dataURL+"/api/xbrl/companyfacts/CIK"+cik+".json", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func trimCIK(cik string) string {
	n, err := strconv.ParseInt(cik, 10, 64)
	if err != nil {
		return cik
	}
	return strconv.FormatInt(n, 10)
}
