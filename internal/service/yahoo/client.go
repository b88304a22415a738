// Package yahoo reads quotes and price history from the v8 chart endpoint.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/util"
)

const Source = "Yahoo Finance (delayed, subject to availability)"

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string   `json:"symbol"`
		Currency           string   `json:"currency"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
		PreviousClose      *float64 `json:"previousClose"`
		ChartPreviousClose *float64 `json:"chartPreviousClose"`
		RegularMarketTime  int64    `json:"regularMarketTime"`
		ExchangeName       string   `json:"exchangeName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Client implements repository.QuoteSource for exchange-listed equities.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New creates a chart client. baseURL is the scheme and host, e.g. https://query1.finance.yahoo.com.
func New(baseURL string, httpClient *xhttp.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) chart(ctx context.Context, symbol string, r repository.Range) (*chartResult, error) {
	w := r.Window()
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
		QueryParams: map[string][]string{
			"range":          {w.Range},
			"interval":       {w.Interval},
			"includePrePost": {"false"},
			"events":         {"div,splits"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w: %w", symbol, repository.ErrUpstreamUnavailable, err)
	}
	if len(resp.Chart.Result) == 0 {
		reason := "no result"
		if resp.Chart.Error != nil && resp.Chart.Error.Description != "" {
			reason = resp.Chart.Error.Description
		}
		return nil, fmt.Errorf("yahoo chart %s: %w: %s", symbol, repository.ErrUpstreamUnavailable, reason)
	}
	return &resp.Chart.Result[0], nil
}

// History converts the parallel OHLCV arrays into points. Bars without a close are dropped.
func (c *Client) History(ctx context.Context, e models.SearchEntity, r repository.Range) (models.HistorySeries, error) {
	res, err := c.chart(ctx, e.Symbol, r)
	if err != nil {
		return models.HistorySeries{}, err
	}

	points := make([]models.PricePoint, 0, len(res.Timestamp))
	if len(res.Indicators.Quote) > 0 {
		q := res.Indicators.Quote[0]
		for i, ts := range res.Timestamp {
			close := at(q.Close, i)
			if close == nil {
				continue
			}
			points = append(points, models.PricePoint{
				TS:     util.ISO(time.Unix(ts, 0)),
				Close:  *close,
				Open:   at(q.Open, i),
				High:   at(q.High, i),
				Low:    at(q.Low, i),
				Volume: at(q.Volume, i),
			})
		}
	}

	currency := res.Meta.Currency
	if currency == "" {
		currency = models.CurrencyUSD
	}
	return models.HistorySeries{
		Symbol:   e.Symbol,
		Currency: currency,
		Points:   points,
		Source:   Source,
		Delayed:  true,
	}, nil
}

// Quote reads the chart meta block of a one month window.
func (c *Client) Quote(ctx context.Context, e models.SearchEntity) (models.Quote, error) {
	res, err := c.chart(ctx, e.Symbol, repository.Range1M)
	if err != nil {
		return models.Quote{}, err
	}
	meta := res.Meta

	q := models.Quote{
		Symbol:        e.Symbol,
		Market:        e.Market,
		Exchange:      exchangeFor(e),
		Currency:      meta.Currency,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
		Source:        Source,
		Delayed:       true,
	}
	if q.PreviousClose == nil {
		q.PreviousClose = meta.ChartPreviousClose
	}
	if q.Currency == "" {
		q.Currency = e.Market.Currency()
	}
	if q.Price != nil && q.PreviousClose != nil {
		change := *q.Price - *q.PreviousClose
		q.Change = models.Float(change)
		if *q.PreviousClose != 0 {
			q.ChangePercent = models.Float(change / *q.PreviousClose * 100)
		}
	}
	if meta.RegularMarketTime > 0 {
		q.Timestamp = util.ISO(time.Unix(meta.RegularMarketTime, 0))
	}
	return q, nil
}

func exchangeFor(e models.SearchEntity) string {
	if e.Exchange != "" && e.Exchange != models.ExchangeUnknown {
		return e.Exchange
	}
	switch e.Market {
	case models.MarketIndia:
		return models.ExchangeNSE
	case models.MarketUS:
		return models.ExchangeNASDAQ
	}
	return models.ExchangeMF
}

func at(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}
