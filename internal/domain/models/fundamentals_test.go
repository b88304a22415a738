package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMetricEntries(t *testing.T) {
	input := map[string]*float64{
		"sales":        Float(1000),
		"pe":           Float(22.5),
		"roe":          Float(18.2),
		"currentPrice": nil,
		"unknown":      Float(7),
	}

	got := MapMetricEntries(input, "INR")
	require.Len(t, got, 3)

	byKey := map[string]MetricValue{}
	for _, m := range got {
		byKey[m.Key] = m
	}
	assert.Equal(t, MetricValue{Key: "sales", Label: "Sales", Value: 1000, Unit: UnitCurrency, Currency: "INR"}, byKey["sales"])
	assert.Equal(t, UnitRatio, byKey["pe"].Unit)
	assert.Empty(t, byKey["pe"].Currency)
	assert.Equal(t, UnitPercent, byKey["roe"].Unit)
	assert.NotContains(t, byKey, "opm")
	assert.NotContains(t, byKey, "currentPrice")
	assert.NotContains(t, byKey, "unknown")

	assert.Equal(t, []string{"sales", "pe", "roe"}, []string{got[0].Key, got[1].Key, got[2].Key}, "display order follows MetricDefs")
}

func TestMapMetricEntriesIsIdempotent(t *testing.T) {
	input := map[string]*float64{}
	for i, def := range MetricDefs {
		input[def.Key] = Float(float64(i) * 1.5)
	}

	first := MapMetricEntries(input, "USD")
	for range 20 {
		assert.Equal(t, first, MapMetricEntries(input, "USD"))
	}
	assert.Len(t, first, len(MetricDefs))
}

func TestMapMetricEntriesDropsNonFinite(t *testing.T) {
	got := MapMetricEntries(map[string]*float64{
		"pe":  Float(math.NaN()),
		"pb":  Float(math.Inf(1)),
		"eps": Float(0),
	}, "USD")
	require.Len(t, got, 1)
	assert.Equal(t, "eps", got[0].Key)
	assert.Zero(t, got[0].Value)
}
