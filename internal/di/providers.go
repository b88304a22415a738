package di

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"StockMetrics/internal/domain/repository"
	domsvc "StockMetrics/internal/domain/service"
	"StockMetrics/internal/handler/api"
	internalrepo "StockMetrics/internal/repository"
	icache "StockMetrics/internal/service/cache"
	imetrics "StockMetrics/internal/service/metrics"
	"StockMetrics/internal/service/provider"
	"StockMetrics/internal/service/ratelimit"
	"StockMetrics/internal/services/analytics"
	"StockMetrics/internal/usecase"
	"StockMetrics/pkg/cache"
	pkgch "StockMetrics/pkg/clickhouse"
	"StockMetrics/pkg/config"
	xhttp "StockMetrics/pkg/http"
	"StockMetrics/pkg/http/middleware"
	pkgkafka "StockMetrics/pkg/kafka"
	"StockMetrics/pkg/logger"
	"StockMetrics/pkg/metrics"
	"StockMetrics/pkg/server"
)

// ProviderSet is every constructor InitializeApp needs.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideAnalyticsMetrics,
	ProvideRedisCache,
	ProvideCacheLoader,
	ProvideKVStore,
	ProvideClickHouseClient,
	ProvideHistoryArchive,
	ProvideKafkaProducer,
	ProvideEventPublisher,
	ProvideKafkaConsumer,
	ProvideProviderSet,
	ProvideResolver,
	ProvideDetailService,
	ProvideAIProvider,
	ProvideInsightsService,
	ProvideWarmUpHandler,
	ProvideRateLimiter,
	ProvideHTTPServer,
	ProvideApp,
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideMetrics creates the Prometheus recorder for upstream, cache and kafka metrics.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Recorder {
	return metrics.NewWithRegistry(reg)
}

func ProvideAnalyticsMetrics(reg *prometheus.Registry) *imetrics.Analytics {
	return imetrics.NewAnalytics(reg)
}

// ProvideRedisCache connects to Redis when enabled; nil otherwise.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}

// ProvideCacheLoader layers an in-process cache over Redis, or uses memory alone.
func ProvideCacheLoader(cfg *config.Config, rc *cache.RedisCache, rec *metrics.Recorder) *cache.Loader {
	var store cache.Service
	if rc != nil {
		store = cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
	} else {
		store = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	return cache.NewLoader(store, cache.WithKeepLast(cfg.Cache.KeepLast), cache.WithObserver(rec))
}

// ProvideKVStore backs the durable last-good values with Redis when available.
func ProvideKVStore(cfg *config.Config, rc *cache.RedisCache) repository.KVStore {
	if rc != nil {
		return icache.NewRedisKV(rc.Client(), cfg.Cache.Redis.Prefix+":kv")
	}
	return icache.NewMemoryKV()
}

// ProvideClickHouseClient opens the archive database and creates its schema; nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		pkgch.WithCreateDatabase(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.HistorySchema); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideHistoryArchive returns a nil interface when ClickHouse is off so adapters skip archiving.
func ProvideHistoryArchive(ch *pkgch.Client, l *logger.Logger) repository.HistoryArchive {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHHistoryArchive(ch, l)
}

// ProvideKafkaProducer creates the producer for view events and log batches; nil when disabled.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithClientID(cfg.Kafka.ClientID),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithProducerRegisterer(reg),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

func ProvideEventPublisher(p *pkgkafka.Producer, rec *metrics.Recorder, l *logger.Logger) repository.EventPublisher {
	if p == nil {
		return internalrepo.NopEventPublisher{}
	}
	return internalrepo.NewKafkaEventPublisher(p, rec, l)
}

// ProvideKafkaConsumer creates the warm-up consumer; nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.Topics.WarmUp == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

func ProvideProviderSet(cfg *config.Config, loader *cache.Loader, kv repository.KVStore, archive repository.HistoryArchive,
	l *logger.Logger, rec *metrics.Recorder) *provider.Set {
	return provider.NewSet(cfg.Providers, loader, kv, archive, l, rec)
}

func ProvideResolver(set *provider.Set, l *logger.Logger) *usecase.Resolver {
	return usecase.NewResolver(set.Indexes, l)
}

func ProvideDetailService(cfg *config.Config, resolver *usecase.Resolver, set *provider.Set, loader *cache.Loader,
	pub repository.EventPublisher, l *logger.Logger) *usecase.DetailService {
	adapters := usecase.DetailAdapters{
		Market:       set.Market,
		Fundamentals: set.Filings,
		News:         set.News,
		Documents:    set.Filings,
		FX:           set.FX,
	}
	return usecase.NewDetailService(resolver, adapters, loader, cfg.Cache.DetailTTL, pub, cfg.Kafka.Topics.DetailViews, l)
}

// ProvideAIProvider loads the learning notes index and selects the configured backend.
func ProvideAIProvider(cfg *config.Config, am *imetrics.Analytics, l *logger.Logger) (domsvc.AIProvider, func(), error) {
	notes, err := analytics.LoadNotes()
	if err != nil {
		return nil, nil, fmt.Errorf("learning notes: %w", err)
	}
	p := analytics.NewProvider(cfg.AI, notes, am, l)
	l.Info("analytics provider selected", logger.String("provider", p.ID()), logger.String("name", p.Name()))
	return p, func() { _ = notes.Close() }, nil
}

func ProvideInsightsService(detail *usecase.DetailService, ai domsvc.AIProvider, am *imetrics.Analytics) *usecase.InsightsService {
	return usecase.NewInsightsService(detail, ai, am)
}

func ProvideWarmUpHandler(cfg *config.Config, detail *usecase.DetailService, rec *metrics.Recorder, l *logger.Logger) *usecase.WarmUpHandler {
	return usecase.NewWarmUpHandler(cfg.Kafka.Topics.WarmUp, detail, rec, l)
}

// ProvideRateLimiter returns a nil Allower when client rate limiting is off.
func ProvideRateLimiter(cfg *config.Config) middleware.Allower {
	if !cfg.Server.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSec)
}

// ProvideHTTPServer registers every API handler on the echo server.
func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, reg *prometheus.Registry, limiter middleware.Allower,
	detail *usecase.DetailService, insights *usecase.InsightsService) *xhttp.Server {
	routes := api.Routes{
		api.NewStocksEchoHandler(l, detail),
		api.NewAnalyticsEchoHandler(l, insights),
		api.NewStreamHandler(l, detail, cfg.Stream.Interval, cfg.Stream.MaxSymbols),
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(len(cfg.Server.CORSOrigins) > 0, cfg.Server.CORSOrigins...),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsRegistry(reg, reg))
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithClientRateLimit(limiter))
	}
	return xhttp.NewServer(routes, l, opts...)
}

// ProvideApp assembles the runnable application and attaches the log collector.
func ProvideApp(cfg *config.Config, l *logger.Logger, srv *xhttp.Server, consumer *pkgkafka.Consumer,
	warm *usecase.WarmUpHandler, producer *pkgkafka.Producer) *server.App {
	if cfg.Log.Collector.Enabled && producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			Service:        "stockmetrics",
			TimeInterval:   cfg.Log.Collector.Interval,
			CountThreshold: cfg.Log.Collector.Threshold,
			Topic:          cfg.Log.Collector.Topic,
			Publisher:      producer,
		})
	}
	app := server.New(cfg, l, srv)
	if consumer != nil {
		app.WithConsumer(consumer, warm)
	}
	return app
}
