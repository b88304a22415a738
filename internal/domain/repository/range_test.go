package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockMetrics/internal/domain/models"
)

func TestRangeWindow(t *testing.T) {
	tests := []struct {
		token    string
		want     UpstreamWindow
		wantDays int
	}{
		{"1m", UpstreamWindow{"1mo", "1d"}, 31},
		{"6M", UpstreamWindow{"6mo", "1d"}, 183},
		{"1y", UpstreamWindow{"1y", "1d"}, 366},
		{"3y", UpstreamWindow{"3y", "1wk"}, 3 * 366},
		{"5y", UpstreamWindow{"5y", "1wk"}, 5 * 366},
		{"max", UpstreamWindow{"10y", "1wk"}, 0},
		{"2w", UpstreamWindow{"10y", "1wk"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			r := NormalizeRange(tt.token)
			assert.Equal(t, tt.want, r.Window())
			assert.Equal(t, tt.wantDays, r.Days())
		})
	}
}

func TestRangeWindowCoversEveryAcceptedToken(t *testing.T) {
	for _, r := range []Range{Range1M, Range6M, Range1Y, Range3Y, Range5Y} {
		assert.NotEqual(t, RangeMax.Window(), r.Window(), "bounded range %s must not use the widest window", r)
	}
}

func TestNormalizeMarket(t *testing.T) {
	m, ok := NormalizeMarket(" India ")
	assert.True(t, ok)
	assert.Equal(t, models.MarketIndia, m)

	_, ok = NormalizeMarket("")
	assert.True(t, ok)

	_, ok = NormalizeMarket("crypto")
	assert.False(t, ok)
}
