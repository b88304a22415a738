package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffWithJitter_Bounds(t *testing.T) {
	min, max := 100*time.Millisecond, time.Second
	for attempt := 1; attempt <= 8; attempt++ {
		exp := min << uint(attempt-1)
		if exp > max {
			exp = max
		}
		for i := 0; i < 50; i++ {
			d := backoffWithJitter(min, max, attempt)
			assert.LessOrEqual(t, d, exp)
			assert.GreaterOrEqual(t, d, exp/2)
		}
	}
}

func TestEncode(t *testing.T) {
	b, err := encode(map[string]string{"symbol": "AAPL"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"AAPL"}`, string(b))

	b, _ = encode("raw")
	assert.Equal(t, "raw", string(b))
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
