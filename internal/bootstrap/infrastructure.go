// Package bootstrap turns a loaded Config into connected infrastructure and
// the lead service shared by the apiserver and the worker.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/landing-ab/internal/config"
	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/postgres"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/redis"
	"github.com/turtacn/landing-ab/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/landing-ab/internal/infrastructure/notify"
	"github.com/turtacn/landing-ab/internal/infrastructure/notify/telegram"
	"github.com/turtacn/landing-ab/internal/infrastructure/notify/webhook"
	"github.com/turtacn/landing-ab/internal/infrastructure/storage/minio"
)

// Options selects the optional backends a binary needs beyond what the
// config enables by itself.
type Options struct {
	// Source names the binary in event envelopes and logs.
	Source string
	// NeedRedis connects Redis even when no config section asks for it.
	NeedRedis bool
}

// Infrastructure holds every connected backend.  Nil fields are disabled.
type Infrastructure struct {
	Config           *config.Config
	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	Metrics          *prometheus.LandingMetrics
	Redis            *redis.Client
	Postgres         *pgxpool.Pool
	MinIO            *minio.MinIOClient
	Producer         *kafka.Producer

	source string
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
		Sampling:    cfg.Log.Sampling,
	})
}

// Connect opens every backend cfg enables.  On failure the backends opened so
// far are closed.
func Connect(ctx context.Context, cfg *config.Config, logger logging.Logger, opts Options) (*Infrastructure, error) {
	infra := &Infrastructure{Config: cfg, Logger: logger, source: opts.Source}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            cfg.Metrics.Subsystem,
		EnableProcessMetrics: cfg.Metrics.Enabled,
		EnableGoMetrics:      cfg.Metrics.Enabled,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	infra.MetricsCollector = collector
	infra.Metrics = prometheus.NewLandingMetrics(collector)

	if opts.NeedRedis || cfg.Experiments.Storage == "redis" || cfg.Chat.Store == "redis" {
		rc, err := redis.NewClient(&redis.RedisConfig{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger.Named("redis"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.Redis = rc
	}

	if cfg.Database.Enabled {
		pgCfg := postgres.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.DBName,
			Username:        cfg.Database.User,
			Password:        cfg.Database.Password,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxConns),
			MinConns:        int32(cfg.Database.MinConns),
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		}
		if cfg.Database.MigrateOnStart {
			if err := postgres.RunMigrations(pgCfg.DSN()); err != nil {
				infra.Close()
				return nil, fmt.Errorf("postgres migrations: %w", err)
			}
			logger.Info("database migrations applied")
		}
		pool, err := postgres.NewConnectionPool(ctx, pgCfg, logger.Named("postgres"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		infra.Postgres = pool
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewMinIOClient(&minio.MinIOConfig{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKey,
			SecretAccessKey: cfg.MinIO.SecretKey,
			UseSSL:          cfg.MinIO.UseSSL,
			Region:          cfg.MinIO.Region,
			LeadBucket:      cfg.MinIO.Bucket,
		}, logger.Named("minio"))
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.MinIO = mc
	}

	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Acks:    "all",
			AsyncErrorHandler: func(err error, msg *kafka.ProducerMessage) {
				logger.Warn("async publish failed", logging.String("topic", msg.Topic), logging.Err(err))
				infra.Metrics.RecordError("kafka.producer", "publish_failed")
			},
		}, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		infra.Producer = p
	}

	return infra, nil
}

// EnsureTopics creates the service topics when Kafka is enabled.  Failures
// are logged; brokers with auto-creation still work.
func (i *Infrastructure) EnsureTopics(ctx context.Context) {
	if !i.Config.Kafka.Enabled {
		return
	}
	tm, err := kafka.NewTopicManager(i.Config.Kafka.Brokers, i.Logger.Named("kafka.topics"))
	if err != nil {
		i.Logger.Warn("topic manager unavailable", logging.Err(err))
		return
	}
	defer tm.Close()
	topics := kafka.DefaultTopics(1)
	for j := range topics {
		switch topics[j].Name {
		case kafka.TopicLeadsSubmitted:
			topics[j].Name = i.Config.Kafka.LeadsTopic
		case kafka.TopicAnalyticsEvents:
			topics[j].Name = i.Config.Kafka.AnalyticsTopic
		case kafka.TopicDeadLetter:
			topics[j].Name = i.Config.Kafka.DeadLetterTopic
		}
	}
	if err := tm.EnsureTopics(ctx, topics); err != nil {
		i.Logger.Warn("topic creation failed", logging.Err(err))
	}
}

// AnalyticsSinks returns the tracker and params sink every event goes
// through: the log, the metrics and, with Kafka, the analytics topic.
func (i *Infrastructure) AnalyticsSinks() (analytics.Tracker, analytics.ParamsSink) {
	logSink := analytics.NewLogTracker(i.Logger)
	metricSink := prometheus.NewAnalyticsTracker(i.Metrics)
	trackers := analytics.Multi{logSink, metricSink}
	params := analytics.MultiParams{logSink, metricSink}
	if i.Producer != nil {
		k := kafka.NewAnalyticsTracker(i.Producer, i.Config.Kafka.AnalyticsTopic, i.source)
		trackers = append(trackers, k)
		params = append(params, k)
	}
	return trackers, params
}

// Notifiers builds the configured lead channels, instrumented.
func (i *Infrastructure) Notifiers() ([]lead.Notifier, error) {
	var channels []lead.Notifier

	tg, err := telegram.New(telegram.Config{
		BotToken: i.Config.Notify.Telegram.BotToken,
		ChatID:   i.Config.Notify.Telegram.ChatID,
		Timeout:  i.Config.Notify.Timeout,
	}, i.Logger)
	if err != nil {
		return nil, err
	}
	if tg != nil {
		channels = append(channels, tg)
	}

	if wh := webhook.New(webhook.Config{
		URL:     i.Config.Notify.SheetsWebhookURL,
		Timeout: i.Config.Notify.Timeout,
	}, &http.Client{Timeout: i.Config.Notify.Timeout}, i.Logger); wh != nil {
		channels = append(channels, wh)
	}

	if len(channels) == 0 {
		i.Logger.Warn("no lead notifiers configured; leads are only logged")
	}
	return notify.Collect(i.Metrics, channels...), nil
}

// ConversationStore picks the chat store of the chat section.
func (i *Infrastructure) ConversationStore() lead.ConversationStore {
	if i.Config.Chat.Store == "redis" && i.Redis != nil {
		return redis.NewConversationStore(i.Redis, i.Config.Chat.ConversationTTL)
	}
	return lead.NewMemoryConversationStore(i.Config.Chat.ConversationTTL)
}

// LeadService wires storage, archive, publishing and notification.  With
// async leads the apiserver only publishes; the worker delivers.
func (i *Infrastructure) LeadService(tracker analytics.Tracker) (*lead.Service, error) {
	notifiers, err := i.Notifiers()
	if err != nil {
		return nil, err
	}
	cfg := lead.ServiceConfig{
		Notifiers:     notifiers,
		Conversations: i.ConversationStore(),
		ClaimTTL:      i.Config.Chat.ConversationTTL,
		Tracker:       tracker,
		Logger:        i.Logger,
	}
	if i.Redis != nil {
		cfg.Claims = redis.NewClaims(i.Redis, i.Logger.Named("claims"))
	}
	if i.Postgres != nil {
		cfg.Repository = repositories.NewLeadRepository(i.Postgres, i.Logger)
	}
	if i.MinIO != nil {
		cfg.Archive = minio.NewLeadArchive(i.MinIO, i.Logger)
	}
	if i.Producer != nil {
		cfg.Publisher = kafka.NewLeadPublisher(i.Producer, i.Config.Kafka.LeadsTopic, i.source)
		cfg.Async = i.Config.Kafka.AsyncLeads
	}
	return lead.NewService(cfg), nil
}

// Close releases every backend.
func (i *Infrastructure) Close() {
	if i.Producer != nil {
		if err := i.Producer.Close(); err != nil {
			i.Logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	if i.MinIO != nil {
		i.MinIO.Close()
	}
	if i.Postgres != nil {
		i.Postgres.Close()
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
}

//Personal.AI order the ending
