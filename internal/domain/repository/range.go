package repository

import (
	"strings"

	"StockMetrics/internal/domain/models"
)

// Range is a history window token accepted by the API.
type Range string

const (
	Range1M  Range = "1m"
	Range6M  Range = "6m"
	Range1Y  Range = "1y"
	Range3Y  Range = "3y"
	Range5Y  Range = "5y"
	RangeMax Range = "max"
)

// UpstreamWindow is the chart query a range maps to. Interval granularity grows
// with the span to bound payload size.
type UpstreamWindow struct {
	Range    string
	Interval string
}

// Window maps r onto an upstream chart window. Unknown tokens get the widest window.
func (r Range) Window() UpstreamWindow {
	switch r {
	case Range1M:
		return UpstreamWindow{Range: "1mo", Interval: "1d"}
	case Range6M:
		return UpstreamWindow{Range: "6mo", Interval: "1d"}
	case Range1Y:
		return UpstreamWindow{Range: "1y", Interval: "1d"}
	case Range3Y:
		return UpstreamWindow{Range: "3y", Interval: "1wk"}
	case Range5Y:
		return UpstreamWindow{Range: "5y", Interval: "1wk"}
	default:
		return UpstreamWindow{Range: "10y", Interval: "1wk"}
	}
}

// Days is the approximate calendar span of r, used to trim fund NAV series and archive reads.
func (r Range) Days() int {
	switch r {
	case Range1M:
		return 31
	case Range6M:
		return 183
	case Range1Y:
		return 366
	case Range3Y:
		return 3 * 366
	case Range5Y:
		return 5 * 366
	default:
		return 0
	}
}

// NormalizeRange converts a raw token to a Range, defaulting to max.
func NormalizeRange(s string) Range {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case Range1M, Range6M, Range1Y, Range3Y, Range5Y, RangeMax:
		return r
	default:
		return RangeMax
	}
}

// NormalizeMarket converts a raw market filter. ok is false for an unknown non-empty value.
func NormalizeMarket(s string) (m models.MarketKind, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	m = models.MarketKind(s)
	return m, m.Valid()
}
