package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAnalyticsCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewAnalytics(reg)

	a.Observe("learning", "ollama", time.Now())
	a.Fail("learning", "ollama")
	a.Fail("learning", "ollama")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.errors.WithLabelValues("learning", "ollama")))
	assert.Equal(t, 1, testutil.CollectAndCount(a.latency))

	var nilMetrics *Analytics
	assert.NotPanics(t, func() { nilMetrics.Fail("x", "y") })
}
