package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "StockCast/internal/domain/repository"
	domservice "StockCast/internal/domain/service"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	icache "StockCast/internal/service/cache"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/nlquery"
	"StockCast/internal/service/sentiment"
	"StockCast/internal/usecase"
	pkgcache "StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/queue"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger. Development environments
// get human-readable console output, everything else logs JSON.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lc.Level = "debug"
		lc.Format = "console"
	}
	l, err := applogger.New(lc)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// durable bar store is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
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
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS stockcast",
		"CREATE TABLE IF NOT EXISTS stockcast.daily_bars (symbol String, day Date, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, day)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarStore creates the ClickHouse-backed daily bar store.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.BarStore {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideKafkaProducer creates a Kafka producer, or nil when signal
// publishing is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideRedisClient creates a shared Redis client for the retrain queue,
// or nil when Redis is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Cache.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
}

// ProvideCacheService creates the quote/history cache. Redis when
// configured, in-process LRU otherwise.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(10000)), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}

	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}

	// Memory L1 in front of Redis keeps hot quotes off the network.
	return pkgcache.NewLayeredCache(c, pkgcache.WithLayeredMemorySize(1000)), nil
}

// ProvideResponseCache creates the HTTP response cache.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideArtifactStore creates the on-disk model artifact store.
func ProvideArtifactStore(cfg *config.Config) (domrepo.ArtifactStore, error) {
	store, err := internalrepo.NewFileArtifactStore(cfg.Models.Dir)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}
	return store, nil
}

// ProvideMarketData builds the provider fallback chain from the configured
// order and wraps it in the caching layer.
func ProvideMarketData(
	cfg *config.Config,
	cache pkgcache.Service,
	bars domrepo.BarStore,
	l *applogger.Logger,
) (domrepo.MarketData, error) {
	providers := make([]marketdata.Provider, 0, len(cfg.MarketData.Providers))
	for _, name := range cfg.MarketData.Providers {
		switch name {
		case "alphavantage":
			p := marketdata.NewAlphaVantage(cfg.MarketData.AlphaVantage.APIKey, cfg.MarketData.AlphaVantage.Timeout)
			if cfg.MarketData.AlphaVantage.BaseURL != "" {
				p.SetBaseURL(cfg.MarketData.AlphaVantage.BaseURL)
			}
			providers = append(providers, p)
		case "yahoo":
			p := marketdata.NewYahoo(cfg.MarketData.Yahoo.Timeout)
			if cfg.MarketData.Yahoo.BaseURL != "" {
				p.SetBaseURL(cfg.MarketData.Yahoo.BaseURL)
			}
			providers = append(providers, p)
		case "mock":
			providers = append(providers, marketdata.NewMock())
		default:
			return nil, fmt.Errorf("unknown market data provider %q", name)
		}
	}

	chain := marketdata.NewChain(providers, uint64(cfg.MarketData.MaxRetries), cfg.MarketData.MaxElapsed)
	chain.SetLogger(l)

	cached := marketdata.NewCached(chain, cache, bars)
	cached.SetLogger(l)
	return cached, nil
}

// ProvideSentiment creates the sentiment sidecar client.
func ProvideSentiment(cfg *config.Config, l *applogger.Logger) domservice.SentimentProvider {
	c := sentiment.NewClient(cfg.Sentiment.ServiceURL,
		sentiment.WithTimeout(cfg.Sentiment.Timeout),
		sentiment.WithNeutralFallback(cfg.Sentiment.NeutralFallback),
	)
	c.SetLogger(l)
	return c
}

// ProvideParser creates the natural-language query parser client.
func ProvideParser(cfg *config.Config) domservice.QueryParser {
	return nlquery.NewClient(cfg.Parser.ServiceURL, cfg.Parser.Timeout)
}

// ProvideTrainer creates the model trainer.
func ProvideTrainer(
	market domrepo.MarketData,
	artifacts domrepo.ArtifactStore,
	locks pkgcache.Service,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.Trainer {
	t := usecase.NewTrainer(market, artifacts, locks, m)
	t.SetLogger(l)
	return t
}

// ProvidePredictor creates the next-day predictor.
func ProvidePredictor(
	market domrepo.MarketData,
	artifacts domrepo.ArtifactStore,
	trainer *usecase.Trainer,
	publisher domrepo.SignalPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.Predictor {
	p := usecase.NewPredictor(market, artifacts, trainer, m)
	if publisher != nil {
		p.SetPublisher(publisher)
	}
	p.SetLogger(l)
	return p
}

// ProvideStrategy creates the position sizing calculator.
func ProvideStrategy() *usecase.Strategy {
	return usecase.NewStrategy()
}

// ProvideAdvisor creates the investment advisor.
func ProvideAdvisor(
	market domrepo.MarketData,
	predictor *usecase.Predictor,
	sent domservice.SentimentProvider,
	strategy *usecase.Strategy,
) *usecase.Advisor {
	return usecase.NewAdvisor(market, predictor, sent, strategy)
}

// ProvideJobPublisher creates the retrain job publisher, or nil when the
// queue is disabled.
func ProvideJobPublisher(cfg *config.Config, l *applogger.Logger, rdb *redis.Client) queue.QueueService {
	if !cfg.Queue.Enabled || rdb == nil {
		return nil
	}
	pub := queue.NewRedisPublisher(l, rdb)

	// Aggregate repeated error logs onto the queue instead of flooding stdout.
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "logs.errors",
		Publisher:      pub,
	})
	return pub
}

// ProvideJobConsumer creates the retrain worker pool, or nil when the
// queue is disabled.
func ProvideJobConsumer(
	cfg *config.Config,
	l *applogger.Logger,
	rdb *redis.Client,
	trainer *usecase.Trainer,
) *queue.RedisQueue {
	if !cfg.Queue.Enabled || rdb == nil {
		return nil
	}
	qc := &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
	jobs := []queue.Job{usecase.NewRetrainJob(trainer, l)}
	return queue.NewRedisConsumer(l, qc, rdb, jobs)
}

// ProvideForecastHandler assembles the HTTP handler with its optional
// collaborators.
func ProvideForecastHandler(
	cfg *config.Config,
	market domrepo.MarketData,
	predictor *usecase.Predictor,
	trainer *usecase.Trainer,
	advisor *usecase.Advisor,
	parser domservice.QueryParser,
	jobs queue.QueueService,
	bars domrepo.BarStore,
	respCache icache.BytesCache,
	l *applogger.Logger,
) xhttp.Handler {
	h := api.NewForecastHandler(market, predictor, trainer, advisor, parser)
	h.SetCache(respCache)
	h.SetLogger(l)
	if jobs != nil {
		h.SetJobQueue(jobs)
	}
	if bars != nil {
		h.SetBarStore(bars)
	}
	if cfg.RateLimit.Enabled {
		h.SetRateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	consumer *queue.RedisQueue,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, handler, consumer, chClient, producer)
}
