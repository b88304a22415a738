// Package fx reads USD-base exchange rates from open.er-api.com.
package fx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockMetrics/internal/domain/models"
	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/util"
)

const Source = "open.er-api.com"

type latestResponse struct {
	Result             string             `json:"result"`
	Rates              map[string]float64 `json:"rates"`
	TimeLastUpdateUTC  string             `json:"time_last_update_utc"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
}

// Client implements repository.RateSource.
type Client struct {
	baseURL string
	http    *xhttp.Client
	now     func() time.Time
}

func New(baseURL string, httpClient *xhttp.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, now: time.Now}
}

// USDRate returns how many units of currency one US dollar buys.
func (c *Client) USDRate(ctx context.Context, currency string) (models.FXRate, error) {
	var resp latestResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v6/latest/USD",
	}, &resp)
	if err != nil {
		return models.FXRate{}, fmt.Errorf("fx latest: %w: %w", repository.ErrUpstreamUnavailable, err)
	}

	rate := resp.Rates[strings.ToUpper(currency)]
	if rate <= 0 {
		return models.FXRate{}, fmt.Errorf("fx latest: %w: %s rate missing", repository.ErrUpstreamUnavailable, currency)
	}

	ts := c.now()
	if t, ok := util.ParseFeedTime(resp.TimeLastUpdateUTC); ok {
		ts = t
	} else if resp.TimeLastUpdateUnix > 0 {
		ts = time.Unix(resp.TimeLastUpdateUnix, 0)
	}
	return models.FXRate{Rate: rate, Source: Source, Timestamp: util.ISO(ts)}, nil
}
