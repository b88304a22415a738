// Package mfapi reads mutual fund NAV history from api.mfapi.in.
package mfapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/util"
)

const Source = "MFAPI (NAV)"

type schemeResponse struct {
	Meta struct {
		SchemeCode     int    `json:"scheme_code"`
		SchemeName     string `json:"scheme_name"`
		FundHouse      string `json:"fund_house"`
		SchemeType     string `json:"scheme_type"`
		SchemeCategory string `json:"scheme_category"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
}

// Client implements repository.QuoteSource for fund schemes addressed as AMFI:<code>.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

func New(baseURL string, httpClient *xhttp.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SchemeCode strips the AMFI: prefix.
func SchemeCode(symbol string) string {
	s := strings.TrimSpace(symbol)
	if len(s) >= 5 && strings.EqualFold(s[:5], "AMFI:") {
		return s[5:]
	}
	return s
}

// History returns the scheme's NAV series sorted ascending. Upstream order is
// not guaranteed. A non-max range trims to that many days before the latest NAV.
func (c *Client) History(ctx context.Context, e models.SearchEntity, r repository.Range) (models.HistorySeries, error) {
	code := SchemeCode(e.Symbol)
	if code == "" {
		return models.HistorySeries{}, fmt.Errorf("mfapi: %w: empty scheme code", repository.ErrUpstreamUnavailable)
	}

	var resp schemeResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/mf/" + url.PathEscape(code),
	}, &resp)
	if err != nil {
		return models.HistorySeries{}, fmt.Errorf("mfapi scheme %s: %w: %w", code, repository.ErrUpstreamUnavailable, err)
	}

	type dated struct {
		at  time.Time
		nav float64
	}
	rows := make([]dated, 0, len(resp.Data))
	for _, row := range resp.Data {
		d, ok := util.ParseDMY(row.Date)
		if !ok {
			continue
		}
		nav, err := strconv.ParseFloat(strings.TrimSpace(row.NAV), 64)
		if err != nil {
			continue
		}
		rows = append(rows, dated{at: d, nav: nav})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	if days := r.Days(); days > 0 && len(rows) > 0 {
		cutoff := rows[len(rows)-1].at.AddDate(0, 0, -days)
		i := sort.Search(len(rows), func(i int) bool { return !rows[i].at.Before(cutoff) })
		rows = rows[i:]
	}

	points := make([]models.PricePoint, len(rows))
	for i, row := range rows {
		points[i] = models.PricePoint{TS: util.ISO(row.at), Close: row.nav}
	}
	return models.HistorySeries{
		Symbol:   "AMFI:" + code,
		Currency: models.CurrencyINR,
		Points:   points,
		Source:   Source,
		Delayed:  true,
	}, nil
}

// Quote derives the latest NAV and day change from the full history.
func (c *Client) Quote(ctx context.Context, e models.SearchEntity) (models.Quote, error) {
	h, err := c.History(ctx, e, repository.RangeMax)
	if err != nil {
		return models.Quote{}, err
	}
	q := models.Quote{
		Symbol:   h.Symbol,
		Market:   models.MarketMF,
		Exchange: models.ExchangeMF,
		Currency: models.CurrencyINR,
		Source:   h.Source,
		Delayed:  true,
	}
	n := len(h.Points)
	if n == 0 {
		return q, nil
	}
	last, prev := h.Points[n-1], h.Points[n-1]
	if n > 1 {
		prev = h.Points[n-2]
	}
	change := last.Close - prev.Close
	q.Price = models.Float(last.Close)
	q.PreviousClose = models.Float(prev.Close)
	q.Change = models.Float(change)
	if prev.Close != 0 {
		q.ChangePercent = models.Float(change / prev.Close * 100)
	}
	q.Timestamp = last.TS
	return q, nil
}
