// Package features derives return and risk series from price history.
package features

import (
	"math"

	"StockMetrics/internal/domain/models"
)

// TradingDaysPerYear annualizes per-step volatility.
const TradingDaysPerYear = 252

// SimpleReturns computes r_t = (C_t - C_{t-1}) / C_{t-1}.
// It returns a slice of length len(closes)-1, or nil if insufficient data.
// Steps from a non-positive close contribute 0.
func SimpleReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]-prev)/prev)
	}
	return out
}

// AnnualizedVolatility is the population standard deviation of returns scaled
// by sqrt(TradingDaysPerYear), in percent.
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	n := float64(len(returns))
	sum := 0.0
	for _, r := range returns {
		sum += r
	}
	mean := sum / n
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= n
	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear) * 100
}

// MaxDrawdown is the deepest decline from a running peak, in percent (<= 0).
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	peak := closes[0]
	worst := 0.0
	for _, c := range closes {
		peak = math.Max(peak, c)
		if peak <= 0 {
			continue
		}
		worst = math.Min(worst, (c-peak)/peak*100)
	}
	return worst
}

// PeriodReturn is the percent change from the first to the last close.
func PeriodReturn(closes []float64) (float64, bool) {
	if len(closes) < 2 || closes[0] == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - closes[0]) / closes[0] * 100, true
}

// Downsample bucket-averages points to at most maxPoints. Each bucket keeps the
// timestamp of its last point, the mean close and the summed volume.
func Downsample(points []models.PricePoint, maxPoints int) []models.PricePoint {
	if maxPoints <= 0 || len(points) <= maxPoints {
		return points
	}
	bucketSize := float64(len(points)) / float64(maxPoints)
	out := make([]models.PricePoint, 0, maxPoints)
	for i := 0; i < maxPoints; i++ {
		start := int(math.Floor(float64(i) * bucketSize))
		end := min(len(points), int(math.Floor(float64(i+1)*bucketSize)))
		if start >= end {
			continue
		}
		bucket := points[start:end]

		var closeSum, volume float64
		hasVolume := false
		for _, p := range bucket {
			closeSum += p.Close
			if p.Volume != nil {
				volume += *p.Volume
				hasVolume = true
			}
		}
		point := models.PricePoint{
			TS:    bucket[len(bucket)-1].TS,
			Close: closeSum / float64(len(bucket)),
		}
		if hasVolume {
			point.Volume = models.Float(volume)
		}
		out = append(out, point)
	}
	return out
}
