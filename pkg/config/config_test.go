package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MergesOverDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: test
providers:
  ttl:
    quote: 45s
ai:
  provider: ollama
`))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, 45*time.Second, c.Providers.TTL.Quote)
	assert.Equal(t, 5*time.Minute, c.Providers.TTL.History)
	assert.Equal(t, AIProviderOllama, c.AI.Provider)
	assert.Equal(t, 8080, c.Server.Port)
}

func TestValidate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	c.AI.Provider = "gpt"
	assert.ErrorContains(t, c.Validate(), "ai.provider")

	c = Default()
	c.Kafka.Enabled = true
	c.Kafka.Brokers = nil
	assert.ErrorContains(t, c.Validate(), "kafka.brokers")

	c = Default()
	c.Environment = ""
	assert.ErrorContains(t, c.Validate(), "environment")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STOCKMETRICS_ENV":          "production",
		"SERVER_PORT":               "9090",
		"REDIS_ADDR":                "redis:6379",
		"KAFKA_BROKERS":             "k1:9092,k2:9092",
		"AI_PROVIDER":               " OpenAI-Compatible ",
		"OPENAI_COMPATIBLE_API_KEY": "secret",
		"SEC_USER_AGENT":            "Acme ops@acme.test",
	}
	c := Default()
	c.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.True(t, c.Cache.Redis.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, AIProviderOpenAICompatible, c.AI.Provider)
	assert.Equal(t, "secret", c.AI.OpenAICompatible.APIKey)
	assert.Equal(t, "Acme ops@acme.test", c.Providers.SECUserAgent)
	assert.NoError(t, c.Validate())
}

func TestLoad_RepositoryConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, AIProviderHeuristic, c.AI.Provider)
	assert.Equal(t, 12*time.Hour, c.Providers.TTL.SearchIndex)

	_, err = Load(filepath.Join(os.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}
