package di

import (
	"context"
	"fmt"
	"time"

	drepo "CosmoPulse/internal/domain/repository"
	dsvc "CosmoPulse/internal/domain/service"
	"CosmoPulse/internal/handler/api"
	internalrepo "CosmoPulse/internal/repository"
	"CosmoPulse/internal/services/archetype"
	"CosmoPulse/internal/services/ephemeris"
	"CosmoPulse/internal/usecase"
	pkgcache "CosmoPulse/pkg/cache"
	pkgch "CosmoPulse/pkg/clickhouse"
	"CosmoPulse/pkg/config"
	"CosmoPulse/pkg/http/middleware"
	pkgkafka "CosmoPulse/pkg/kafka"
	xlogger "CosmoPulse/pkg/logger"
	"CosmoPulse/pkg/metrics"
	"CosmoPulse/pkg/server"
)

// ProvideLogger creates the application logger. Console output in
// development, JSON elsewhere.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	lcfg := &xlogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lcfg.Level = "debug"
		lcfg.Format = "console"
	}
	return xlogger.New(lcfg)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// archive is disabled.
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

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".transit_archive (" +
			"computed_at DateTime, chart LowCardinality(String), body String, " +
			"gate UInt8, line UInt8, retrograde UInt8" +
			") ENGINE=MergeTree ORDER BY (chart, computed_at)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideArchive creates the ClickHouse-backed snapshot archive.
func ProvideArchive(chClient *pkgch.Client, cfg *config.Config) drepo.Archive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database+".transit_archive")
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled.
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

// ProvideSnapshotPublisher creates the Kafka publisher repository.
func ProvideSnapshotPublisher(producer *pkgkafka.Producer, cfg *config.Config) drepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML, or nil
// when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaSnapshotsHandler registers the archive handler for the
// snapshots topic. Without an archive there is nothing to consume into.
func ProvideKafkaSnapshotsHandler(archive drepo.Archive, m drepo.Metrics, cfg *config.Config) *usecase.KafkaSnapshotsHandler {
	if archive == nil {
		return nil
	}
	return usecase.NewKafkaSnapshotsHandler(cfg.Kafka.Topic, archive, m)
}

// ProvideCache creates the layered memory+Redis cache service.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	var redisCache *pkgcache.RedisCache
	if cfg.Cache.Redis.Enabled {
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		redisCache = rc
	}
	return pkgcache.NewLayeredCache(redisCache, pkgcache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
}

// ProvideSnapshotStore creates the last-known-good snapshot store.
func ProvideSnapshotStore(cache pkgcache.Service) drepo.SnapshotStore {
	return internalrepo.NewCacheSnapshotStore(cache)
}

// ProvideEphemerisProvider creates the ephemeris HTTP client.
func ProvideEphemerisProvider(cfg *config.Config) dsvc.EphemerisProvider {
	return ephemeris.NewHTTPProvider(cfg.Ephemeris.ServiceURL, cfg.Ephemeris.Timeout)
}

// ProvideArchetypes creates the gate archetype lookup table.
func ProvideArchetypes() dsvc.ArchetypeLookup {
	return archetype.New()
}

// ProvideWSHub creates the websocket broadcast hub.
func ProvideWSHub(logger *xlogger.Logger) *api.WSHub {
	return api.NewWSHub(logger)
}

// ProvideSnapshotProcessor creates the post-refresh fanout.
func ProvideSnapshotProcessor(
	pub drepo.Publisher,
	hub *api.WSHub,
	store drepo.SnapshotStore,
	m drepo.Metrics,
	logger *xlogger.Logger,
) *usecase.SnapshotProcessor {
	return usecase.NewSnapshotProcessor(pub, hub, store, m, logger)
}

// ProvideTransitCache creates the shared transit cache.
func ProvideTransitCache(
	provider dsvc.EphemerisProvider,
	proc *usecase.SnapshotProcessor,
	store drepo.SnapshotStore,
	m drepo.Metrics,
	logger *xlogger.Logger,
	cfg *config.Config,
) *usecase.TransitCache {
	return usecase.NewTransitCache(provider, m, logger,
		usecase.WithWindow(cfg.Ephemeris.Window),
		usecase.WithRefreshInterval(cfg.Ephemeris.RefreshInterval),
		usecase.WithRepairTimeout(cfg.Ephemeris.RefreshTimeout),
		usecase.WithSnapshotStore(store),
		usecase.WithProcessor(proc),
	)
}

// ProvideFieldVectorCalculator creates the field scoring use case.
func ProvideFieldVectorCalculator(cache *usecase.TransitCache) *usecase.FieldVectorCalculator {
	return usecase.NewFieldVectorCalculator(cache)
}

// ProvideSummaryFormatter creates the report use case.
func ProvideSummaryFormatter(
	cache *usecase.TransitCache,
	archetypes dsvc.ArchetypeLookup,
	texts pkgcache.Service,
	cfg *config.Config,
) *usecase.SummaryFormatter {
	return usecase.NewSummaryFormatter(cache, archetypes, texts, cfg.Cache.SummaryTTL)
}

// ProvideTransitsHandler creates the Echo HTTP handler.
func ProvideTransitsHandler(
	logger *xlogger.Logger,
	cache *usecase.TransitCache,
	calc *usecase.FieldVectorCalculator,
	summary *usecase.SummaryFormatter,
	archive drepo.Archive,
	hub *api.WSHub,
	cfg *config.Config,
) *api.TransitsEchoHandler {
	return api.NewTransitsEchoHandler(logger, cache, calc, summary, archive, hub,
		cfg.Ephemeris.Window,
		middleware.RateLimitSettings{
			Enabled:      cfg.RateLimit.Enabled,
			Capacity:     cfg.RateLimit.Capacity,
			RefillPerSec: cfg.RateLimit.RefillPerSec,
		},
	)
}

// kafkaLogSink adapts the Kafka producer to the log collector's publisher.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	cache *usecase.TransitCache,
	proc *usecase.SnapshotProcessor,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotsHandler,
	chClient *pkgch.Client,
	handler *api.TransitsEchoHandler,
	hub *api.WSHub,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil {
		logger.AddCollector(&xlogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      kafkaLogSink{producer: producer},
		})
	}
	return server.New(cfg, logger, cache, proc, consumer, kh, chClient, handler, hub)
}
