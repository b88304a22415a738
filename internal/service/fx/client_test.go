package fx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/repository"
	xhttp "StockMetrics/pkg/http"
)

func serve(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/latest/USD", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, xhttp.NewClient())
}

func TestUSDRate(t *testing.T) {
	c := serve(t, `{"result":"success","time_last_update_utc":"Wed, 01 Jan 2025 00:02:31 +0000","rates":{"USD":1,"INR":85.61}}`)

	r, err := c.USDRate(context.Background(), "inr")
	require.NoError(t, err)
	assert.Equal(t, 85.61, r.Rate)
	assert.Equal(t, Source, r.Source)
	assert.Equal(t, "2025-01-01T00:02:31.000Z", r.Timestamp)
	assert.False(t, r.Stale)
}

func TestUSDRateMissingCurrency(t *testing.T) {
	c := serve(t, `{"rates":{"USD":1}}`)
	_, err := c.USDRate(context.Background(), "INR")
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrUpstreamUnavailable))
}
