package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendAndParseJSON(t *testing.T) {
	var gotUA, gotAccept, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.Query().Get("range")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":{"INR":83.1}}`))
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second), WithUserAgent("StockMetrics/1.0"), WithHeader("Accept", "application/json"))

	var out struct {
		Rates map[string]float64 `json:"rates"`
	}
	err := c.SendAndParse(context.Background(), &RequestOptions{
		Method:      MethodGet,
		URL:         srv.URL,
		QueryParams: map[string][]string{"range": {"1mo"}},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, 83.1, out.Rates["INR"])
	assert.Equal(t, "StockMetrics/1.0", gotUA)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "1mo", gotQuery)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient()
	var raw []byte
	err := c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &raw)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Body, "slow down")
}

func TestClient_RawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Symbol|Security Name\nAAPL|Apple Inc.\n"))
	}))
	defer srv.Close()

	var raw []byte
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &raw)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "AAPL|Apple Inc.")
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(WithRateLimit(0.001, 1))
	require.NoError(t, c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.SendAndParse(ctx, &RequestOptions{Method: MethodGet, URL: srv.URL}, nil)
	assert.Error(t, err)
}
