// API server entry point for the landing service.
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

	"github.com/turtacn/landing-ab/internal/application/landing"
	"github.com/turtacn/landing-ab/internal/bootstrap"
	"github.com/turtacn/landing-ab/internal/config"
	"github.com/turtacn/landing-ab/internal/domain/chatwidget"
	"github.com/turtacn/landing-ab/internal/domain/exitintent"
	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/internal/domain/roi"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/postgres"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/redis"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/infrastructure/render/htmldoc"
	httpserver "github.com/turtacn/landing-ab/internal/interfaces/http"
	"github.com/turtacn/landing-ab/internal/interfaces/http/handlers"
	"github.com/turtacn/landing-ab/internal/interfaces/http/middleware"
)

// Version is injected via ldflags.
var Version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the configuration")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *configPath, logger); err != nil {
		logger.Error("apiserver stopped with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting landing API server",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port),
		logging.String("assignment_storage", cfg.Experiments.Storage),
	)

	watchLogLevel(configPath, logger)

	infra, err := bootstrap.Connect(ctx, cfg, logger, bootstrap.Options{Source: "landing-apiserver"})
	if err != nil {
		return err
	}
	defer infra.Close()
	infra.EnsureTopics(ctx)

	tracker, params := infra.AnalyticsSinks()
	leads, err := infra.LeadService(tracker)
	if err != nil {
		return fmt.Errorf("lead service: %w", err)
	}

	// --- Page pipeline ---
	source, err := htmldoc.NewFileSource(cfg.Page.TemplatePath, logger.Named("template"))
	if err != nil {
		return err
	}
	defer source.Close()
	if cfg.Page.WatchTemplate {
		if err := source.Watch(ctx); err != nil {
			logger.Warn("template watch disabled", logging.Err(err))
		}
	}

	catalog := experiment.DefaultCatalog()
	if cfg.Experiments.CatalogFile != "" {
		if catalog, err = experiment.LoadCatalogFile(cfg.Experiments.CatalogFile); err != nil {
			return err
		}
	}
	policy, err := experiment.ParseReconcilePolicy(cfg.Experiments.Reconcile)
	if err != nil {
		return err
	}
	selector := experiment.NewSelector(experiment.NewRandomSource(time.Now().UnixNano()))

	pageViews := landing.NewPageViews(landing.PageViewsConfig{
		Exit: exitintent.Config{
			EdgeThreshold:     cfg.Page.ExitEdgeThreshold,
			InactivityTimeout: cfg.Page.InactivityTimeout,
			MobileMaxWidth:    cfg.Page.MobileMaxWidth,
		},
		TTL:           cfg.Page.PageViewTTL,
		SweepSchedule: cfg.Page.SweepSchedule,
		Tracker:       tracker,
		Metrics:       infra.Metrics,
		Logger:        logger,
	})
	if err := pageViews.Start(); err != nil {
		return err
	}
	defer pageViews.Stop()

	landingSvc, err := landing.NewService(landing.Config{
		Source:    source,
		Catalog:   catalog,
		Selector:  selector,
		Reporter:  experiment.NewReporter(tracker, params, catalog, logger),
		Policy:    policy,
		Chat:      chatwidget.Config{TelegramUser: cfg.Page.TelegramChatUser},
		PageViews: pageViews,
		Metrics:   infra.Metrics,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	storage, err := storageResolver(cfg, infra)
	if err != nil {
		return err
	}

	// --- HTTP surface ---
	// Redis backs assignments and chats; the lead table and archive only add
	// durability, so they degrade instead of failing readiness.
	var checkers []handlers.HealthChecker
	if infra.Redis != nil {
		checkers = append(checkers, handlers.CheckFunc("redis", infra.Redis.Ping))
	}
	if infra.Postgres != nil {
		pool := infra.Postgres
		checkers = append(checkers, handlers.Optional(handlers.CheckFunc("postgres", func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool, logger)
		})))
	}
	if infra.MinIO != nil {
		checkers = append(checkers, handlers.Optional(handlers.CheckFunc("minio", infra.MinIO.HealthCheck)))
	}

	routerCfg := httpserver.RouterConfig{
		PageHandler:       handlers.NewPageHandler(landingSvc, storage, logger),
		ExperimentHandler: handlers.NewExperimentHandler(landingSvc, landing.NewConsole(landingSvc, false), storage, selector, logger),
		LeadHandler:       handlers.NewLeadHandler(leads, landingSvc, storage, logger),
		ROIHandler:        handlers.NewROIHandler(roi.NewCalculator(tracker, logger), logger),
		EventHandler:      handlers.NewEventHandler(tracker, params, logger),
		PageViewHandler:   handlers.NewPageViewHandler(pageViews, logger),
		HealthHandler:     handlers.NewHealthHandler(Version, checkers...).WithMetrics(infra.Metrics),
		Logging:           middleware.DefaultLoggingConfig(),
		Visitor: middleware.VisitorConfig{
			MaxAge: cfg.Experiments.CookieMaxAge,
			Secure: cfg.Experiments.CookieSecure,
		},
		MaxBodySize:  cfg.Server.MaxBodySize,
		ConsoleToken: cfg.Server.ConsoleToken,
		Logger:       logger,
		Metrics:      infra.Metrics,
		MetricsPath:  cfg.Metrics.Path,
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsCollector = infra.MetricsCollector
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.AllowedOrigins
		cors.AllowCredentials = true
		routerCfg.CORS = &cors
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewKeyedLimiter(cfg.RateLimit.RequestsPerSec, cfg.RateLimit.Burst, 5*time.Minute)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
		routerCfg.RateLimit = middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSec,
			BurstSize:         cfg.RateLimit.Burst,
		}
	}
	if cfg.Server.ConsoleToken == "" {
		logger.Info("developer console disabled; set server.console_token to enable it")
	}

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("API server stopped")
	return nil
}

// watchLogLevel applies log.level edits of the config file without a
// restart.  Other sections still need one.
func watchLogLevel(configPath string, logger logging.Logger) {
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	config.Watch(configPath, func(next *config.Config) {
		ls, ok := logger.(logging.LevelSetter)
		if !ok || ls.Level() == next.Log.Level {
			return
		}
		if err := ls.SetLevel(next.Log.Level); err != nil {
			logger.Warn("log level not changed", logging.Err(err))
			return
		}
		logger.Info("log level changed", logging.String("level", next.Log.Level))
	})
}

// storageResolver picks where assignments persist.
func storageResolver(cfg *config.Config, infra *bootstrap.Infrastructure) (handlers.StorageResolver, error) {
	switch cfg.Experiments.Storage {
	case "redis":
		if infra.Redis == nil {
			return nil, errors.New("redis assignment storage without a redis connection")
		}
		return handlers.NamespaceResolver{Namespaces: redis.NewAssignmentNamespaces(infra.Redis)}, nil
	case "memory":
		return handlers.NamespaceResolver{Namespaces: experiment.NewMemoryNamespaces()}, nil
	default:
		return handlers.CookieResolver{MaxAge: cfg.Experiments.CookieMaxAge, Secure: cfg.Experiments.CookieSecure}, nil
	}
}

// loadEnvFile exports a dotenv file into the environment.  A missing file is
// not an error; variables already set win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// loadConfig reads path when it exists, otherwise the environment alone.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: %s not found, configuring from LANDING_* environment\n", path)
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

//Personal.AI order the ending
