package features

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMetrics/internal/domain/models"
)

func TestSimpleReturns(t *testing.T) {
	assert.Nil(t, SimpleReturns([]float64{100}))
	got := SimpleReturns([]float64{100, 110, 99, 0, 10})
	require.Len(t, got, 4)
	assert.InDelta(t, 0.1, got[0], 1e-12)
	assert.InDelta(t, -0.1, got[1], 1e-12)
	assert.InDelta(t, -1, got[2], 1e-12)
	assert.Zero(t, got[3])
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Zero(t, AnnualizedVolatility(nil))
	assert.Zero(t, AnnualizedVolatility([]float64{0.01, 0.01, 0.01}))

	// population stdev of {0.01,-0.01} is 0.01
	got := AnnualizedVolatility([]float64{0.01, -0.01})
	assert.InDelta(t, 0.01*math.Sqrt(252)*100, got, 1e-9)
}

func TestMaxDrawdown(t *testing.T) {
	assert.Zero(t, MaxDrawdown([]float64{1, 2, 3}))
	assert.InDelta(t, -50, MaxDrawdown([]float64{100, 200, 150, 100, 180}), 1e-12)
}

func TestPeriodReturn(t *testing.T) {
	v, ok := PeriodReturn([]float64{100, 90, 125})
	require.True(t, ok)
	assert.InDelta(t, 25, v, 1e-12)

	_, ok = PeriodReturn([]float64{0, 1})
	assert.False(t, ok)
}

func TestDownsample(t *testing.T) {
	points := make([]models.PricePoint, 10)
	for i := range points {
		points[i] = models.PricePoint{TS: fmt.Sprintf("2024-01-%02dT00:00:00.000Z", i+1), Close: float64(i + 1), Volume: models.Float(10)}
	}

	assert.Equal(t, points, Downsample(points, 10))
	assert.Equal(t, points, Downsample(points, 0))

	got := Downsample(points, 4)
	require.Len(t, got, 4)
	// buckets of 2.5: [0,2) [2,5) [5,7) [7,10)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", got[0].TS)
	assert.InDelta(t, 1.5, got[0].Close, 1e-12)
	assert.InDelta(t, 4, got[1].Close, 1e-12)
	assert.InDelta(t, 30, *got[1].Volume, 1e-12)
	assert.Equal(t, "2024-01-10T00:00:00.000Z", got[3].TS)

	noVolume := []models.PricePoint{{TS: "a", Close: 1}, {TS: "b", Close: 3}, {TS: "c", Close: 5}}
	got = Downsample(noVolume, 1)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Volume)
	assert.InDelta(t, 3, got[0].Close, 1e-12)
}
