package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AI provider names accepted in ai.provider.
const (
	AIProviderHeuristic        = "heuristic"
	AIProviderOllama           = "ollama"
	AIProviderOpenAICompatible = "openai-compatible"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SlowThreshold   time.Duration `yaml:"slow_threshold"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		RateLimit       struct {
			Enabled      bool    `yaml:"enabled"`
			Capacity     int     `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		Output    string `yaml:"output"`
		Collector struct {
			Enabled   bool          `yaml:"enabled"`
			Topic     string        `yaml:"topic"`
			Interval  time.Duration `yaml:"interval"`
			Threshold int           `yaml:"threshold"`
		} `yaml:"collector"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
	Cache struct {
		MemoryMaxSize int           `yaml:"memory_max_size"`
		KeepLast      time.Duration `yaml:"keep_last"`
		DetailTTL     time.Duration `yaml:"detail_ttl"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
	AI        AIConfig        `yaml:"ai"`
	Kafka     struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		ClientID     string   `yaml:"client_id"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Topics       struct {
			DetailViews string `yaml:"detail_views"`
			WarmUp      string `yaml:"warm_up"`
		} `yaml:"topics"`
		Producer struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Stream struct {
		Interval   time.Duration `yaml:"interval"`
		MaxSymbols int           `yaml:"max_symbols"`
	} `yaml:"stream"`
}

// ProvidersConfig holds upstream endpoints, limits and per-source TTLs.
type ProvidersConfig struct {
	UserAgent    string        `yaml:"user_agent"`
	SECUserAgent string        `yaml:"sec_user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	RateLimit    struct {
		Yahoo float64 `yaml:"yahoo"`
		SEC   float64 `yaml:"sec"`
		MFAPI float64 `yaml:"mfapi"`
		News  float64 `yaml:"news"`
	} `yaml:"rate_limit"`
	BaseURLs struct {
		Yahoo   string `yaml:"yahoo"`
		MFAPI   string `yaml:"mfapi"`
		SECData string `yaml:"sec_data"`
		SECWWW  string `yaml:"sec_www"`
		News    string `yaml:"news"`
		FX      string `yaml:"fx"`
		NASDAQ  string `yaml:"nasdaq"`
		NSE     string `yaml:"nse"`
		AMFI    string `yaml:"amfi"`
	} `yaml:"base_urls"`
	TTL struct {
		Quote        time.Duration `yaml:"quote"`
		History      time.Duration `yaml:"history"`
		NAV          time.Duration `yaml:"nav"`
		SECTickers   time.Duration `yaml:"sec_tickers"`
		Fundamentals time.Duration `yaml:"fundamentals"`
		Documents    time.Duration `yaml:"documents"`
		News         time.Duration `yaml:"news"`
		FX           time.Duration `yaml:"fx"`
		SearchIndex  time.Duration `yaml:"search_index"`
	} `yaml:"ttl"`
}

// AIConfig selects the learning-assistant backend.
type AIConfig struct {
	Provider string `yaml:"provider"`
	Ollama   struct {
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"ollama"`
	OpenAICompatible struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"openai_compatible"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from the environment through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("STOCKMETRICS_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("OLLAMA_BASE_URL"); v != "" {
		c.AI.Ollama.BaseURL = v
	}
	if v := getenv("OLLAMA_MODEL"); v != "" {
		c.AI.Ollama.Model = v
	}
	if v := getenv("OPENAI_COMPATIBLE_BASE_URL"); v != "" {
		c.AI.OpenAICompatible.BaseURL = v
	}
	if v := getenv("OPENAI_COMPATIBLE_API_KEY"); v != "" {
		c.AI.OpenAICompatible.APIKey = v
	}
	if v := getenv("OPENAI_COMPATIBLE_MODEL"); v != "" {
		c.AI.OpenAICompatible.Model = v
	}
	if v := getenv("SEC_USER_AGENT"); v != "" {
		c.Providers.SECUserAgent = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.AI.Provider {
	case AIProviderHeuristic, AIProviderOllama, AIProviderOpenAICompatible:
	default:
		return fmt.Errorf("ai.provider must be one of heuristic, ollama, openai-compatible, got '%s'", c.AI.Provider)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when redis is enabled")
	}
	if c.Providers.UserAgent == "" {
		return fmt.Errorf("providers.user_agent is required")
	}
	return nil
}
