// Worker entry point: notifies leads the apiserver queued on the leads topic
// when kafka.async_leads is enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/turtacn/landing-ab/internal/application/delivery"
	"github.com/turtacn/landing-ab/internal/bootstrap"
	"github.com/turtacn/landing-ab/internal/config"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/redis"
	"github.com/turtacn/landing-ab/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/landing-ab/internal/interfaces/http"
	"github.com/turtacn/landing-ab/internal/interfaces/http/handlers"
)

// Version is injected via ldflags.
var Version = "dev"

const (
	defaultWorkerConfigPath = "configs/config.yaml"
	defaultHealthPort       = 8081
	maxRetries              = 3
)

func main() {
	configPath := flag.String("config", defaultWorkerConfigPath, "path to configuration file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the configuration")
	healthPort := flag.Int("health-port", defaultHealthPort, "port of the health and metrics endpoints")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.LoadOrEnv(existing(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Kafka.Enabled {
		fmt.Fprintln(os.Stderr, "kafka.enabled is false; the worker has nothing to consume")
		os.Exit(1)
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *healthPort, logger); err != nil {
		logger.Error("worker stopped with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, healthPort int, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting landing worker",
		logging.String("version", Version),
		logging.String("topic", cfg.Kafka.LeadsTopic),
		logging.String("group", cfg.Kafka.GroupID),
	)

	infra, err := bootstrap.Connect(ctx, cfg, logger, bootstrap.Options{Source: "landing-worker", NeedRedis: true})
	if err != nil {
		return err
	}
	defer infra.Close()
	infra.EnsureTopics(ctx)

	tracker, _ := infra.AnalyticsSinks()
	leads, err := infra.LeadService(tracker)
	if err != nil {
		return fmt.Errorf("lead service: %w", err)
	}

	worker := delivery.NewWorker(delivery.Config{
		Deliverer: leads,
		Claims:    redis.NewClaims(infra.Redis, logger.Named("claims")),
		Metrics:   infra.Metrics,
		Logger:    logger,
	})

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{cfg.Kafka.LeadsTopic},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      maxRetries,
			RetryBackoff:    time.Second,
			DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.Subscribe(cfg.Kafka.LeadsTopic, worker.Handler())
	if err := consumer.Start(ctx); err != nil {
		return err
	}
	defer consumer.Close()

	// Health and metrics only; the visitor surface stays unregistered.
	health := httpserver.NewServer(httpserver.ServerConfig{Port: healthPort}, httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, handlers.CheckFunc("redis", infra.Redis.Ping)).WithMetrics(infra.Metrics),
		MetricsCollector: infra.MetricsCollector,
		MetricsPath:      cfg.Metrics.Path,
		Logger:           logger,
		Metrics:          infra.Metrics,
	}), logger)
	errCh := make(chan error, 1)
	go func() { errCh <- health.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down worker")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := health.Stop(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}
	logger.Info("worker stopped")
	return nil
}

// existing returns path when the file exists, otherwise "".
func existing(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

//Personal.AI order the ending
