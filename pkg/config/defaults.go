package config

import "time"

// Default returns a configuration that runs with no external infrastructure:
// in-memory cache, heuristic AI, Kafka and ClickHouse disabled.
func Default() *Config {
	c := &Config{Environment: "development"}

	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.SlowThreshold = 3 * time.Second
	c.Server.CORSOrigins = []string{"*"}
	c.Server.RateLimit.Capacity = 60
	c.Server.RateLimit.RefillPerSec = 2

	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Log.Output = "stdout"
	c.Log.Collector.Topic = "stockmetrics.logs"
	c.Log.Collector.Interval = 30 * time.Second
	c.Log.Collector.Threshold = 100

	c.Metrics.Enabled = true

	c.Cache.KeepLast = 7 * 24 * time.Hour
	c.Cache.DetailTTL = 30 * time.Second
	c.Cache.Redis.Prefix = "stockmetrics"

	p := &c.Providers
	p.UserAgent = "StockMetrics/1.0"
	p.SECUserAgent = "Stock Metrics stockmetrics@example.com"
	p.Timeout = 12 * time.Second
	p.RateLimit.Yahoo = 5
	p.RateLimit.SEC = 8
	p.RateLimit.MFAPI = 5
	p.RateLimit.News = 2
	p.BaseURLs.Yahoo = "https://query1.finance.yahoo.com"
	p.BaseURLs.MFAPI = "https://api.mfapi.in"
	p.BaseURLs.SECData = "https://data.sec.gov"
	p.BaseURLs.SECWWW = "https://www.sec.gov"
	p.BaseURLs.News = "https://news.google.com"
	p.BaseURLs.FX = "https://open.er-api.com"
	p.BaseURLs.NASDAQ = "https://www.nasdaqtrader.com/dynamic/symdir"
	p.BaseURLs.NSE = "https://archives.nseindia.com/content/equities"
	p.BaseURLs.AMFI = "https://www.amfiindia.com/spages"
	p.TTL.Quote = 30 * time.Second
	p.TTL.History = 5 * time.Minute
	p.TTL.NAV = time.Hour
	p.TTL.SECTickers = 24 * time.Hour
	p.TTL.Fundamentals = 6 * time.Hour
	p.TTL.Documents = 12 * time.Hour
	p.TTL.News = 10 * time.Minute
	p.TTL.FX = 6 * time.Hour
	p.TTL.SearchIndex = 12 * time.Hour

	c.AI.Provider = AIProviderHeuristic
	c.AI.Ollama.BaseURL = "http://localhost:11434"
	c.AI.Ollama.Model = "llama3.1"
	c.AI.Ollama.Timeout = 30 * time.Second
	c.AI.OpenAICompatible.Model = "gpt-4o-mini"
	c.AI.OpenAICompatible.Timeout = 30 * time.Second

	c.Kafka.ClientID = "stockmetrics"
	c.Kafka.RequiredAcks = 1
	c.Kafka.Compression = "snappy"
	c.Kafka.Topics.DetailViews = "stockmetrics.detail-views"
	c.Kafka.Topics.WarmUp = "stockmetrics.warm-up"
	c.Kafka.Producer.MaxAttempts = 3
	c.Kafka.Producer.Linger = 200 * time.Millisecond
	c.Kafka.Producer.BatchSize = 100
	c.Kafka.Producer.WriteTimeout = 10 * time.Second
	c.Kafka.Producer.Async = true
	c.Kafka.Consumer.GroupID = "stockmetrics-warmup"
	c.Kafka.Consumer.Workers = 2
	c.Kafka.Consumer.BufferSize = 16
	c.Kafka.Consumer.RetryMax = 2
	c.Kafka.Consumer.BackoffMin = 200 * time.Millisecond
	c.Kafka.Consumer.BackoffMax = 5 * time.Second

	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "stockmetrics"
	c.ClickHouse.User = "default"
	c.ClickHouse.DialTimeout = 5 * time.Second
	c.ClickHouse.ReadTimeout = 10 * time.Second
	c.ClickHouse.WriteTimeout = 10 * time.Second
	c.ClickHouse.AsyncInsert = true

	c.Stream.Interval = 15 * time.Second
	c.Stream.MaxSymbols = 20
	return c
}
