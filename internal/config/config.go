// Package config defines all configuration structures for the landing
// service.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// ConsoleToken guards the developer-console endpoints.  Empty disables them.
	ConsoleToken string `mapstructure:"console_token"`
	// AllowedOrigins enables CORS for browser glue served from another host.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection parameters for lead storage.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters.
type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	AnalyticsTopic  string   `mapstructure:"analytics_topic"`
	LeadsTopic      string   `mapstructure:"leads_topic"`
	DeadLetterTopic string   `mapstructure:"dead_letter_topic"`
	// AsyncLeads hands lead notification to the worker through LeadsTopic
	// instead of notifying inline.
	AsyncLeads bool `mapstructure:"async_leads"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters used by
// the lead archive.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
	Path      string `mapstructure:"path"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
	Sampling    bool     `mapstructure:"sampling"`
}

// ExperimentsConfig controls assignment persistence and the test catalog.
type ExperimentsConfig struct {
	// Storage selects the assignment backend: "cookie" | "redis" | "memory".
	Storage string `mapstructure:"storage"`
	// Reconcile selects how stored records meet catalog changes:
	// "merge-missing" | "verbatim".
	Reconcile    string        `mapstructure:"reconcile"`
	CatalogFile  string        `mapstructure:"catalog_file"`
	CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// PageConfig controls the landing page template and page-view sessions.
type PageConfig struct {
	TemplatePath      string        `mapstructure:"template_path"`
	WatchTemplate     bool          `mapstructure:"watch_template"`
	PageViewTTL       time.Duration `mapstructure:"page_view_ttl"`
	SweepSchedule     string        `mapstructure:"sweep_schedule"`
	InactivityTimeout time.Duration `mapstructure:"inactivity_timeout"`
	MobileMaxWidth    int           `mapstructure:"mobile_max_width"`
	ExitEdgeThreshold float64       `mapstructure:"exit_edge_threshold"`
	TelegramChatUser  string        `mapstructure:"telegram_chat_user"`
}

// ChatConfig controls the qualification chat flow.
type ChatConfig struct {
	Store           string        `mapstructure:"store"` // "memory" | "redis"
	ConversationTTL time.Duration `mapstructure:"conversation_ttl"`
}

// TelegramConfig holds lead-notification bot parameters.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// NotifyConfig holds lead-notification parameters.
type NotifyConfig struct {
	Telegram         TelegramConfig `mapstructure:"telegram"`
	SheetsWebhookURL string         `mapstructure:"sheets_webhook_url"`
	Timeout          time.Duration  `mapstructure:"timeout"`
}

// RateLimitConfig bounds lead-producing endpoints per client IP.
type RateLimitConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	RequestsPerSec float64 `mapstructure:"requests_per_sec"`
	Burst          int     `mapstructure:"burst"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Log         LogConfig         `mapstructure:"log"`
	Experiments ExperimentsConfig `mapstructure:"experiments"`
	Page        PageConfig        `mapstructure:"page"`
	Chat        ChatConfig        `mapstructure:"chat"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
		}
	}

	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
	}
	if c.Kafka.AsyncLeads && !c.Kafka.Enabled {
		return fmt.Errorf("config: kafka.async_leads requires kafka.enabled")
	}

	if c.MinIO.Enabled && (c.MinIO.Endpoint == "" || c.MinIO.Bucket == "") {
		return fmt.Errorf("config: minio.endpoint and minio.bucket are required when minio is enabled")
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	switch c.Experiments.Storage {
	case "cookie", "redis", "memory":
	default:
		return fmt.Errorf("config: experiments.storage %q is invalid; expected cookie|redis|memory", c.Experiments.Storage)
	}
	switch c.Experiments.Reconcile {
	case "merge-missing", "verbatim":
	default:
		return fmt.Errorf("config: experiments.reconcile %q is invalid; expected merge-missing|verbatim", c.Experiments.Reconcile)
	}
	switch c.Chat.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: chat.store %q is invalid; expected memory|redis", c.Chat.Store)
	}

	if c.Page.PageViewTTL <= 0 {
		return fmt.Errorf("config: page.page_view_ttl must be positive")
	}
	if c.Page.InactivityTimeout <= 0 {
		return fmt.Errorf("config: page.inactivity_timeout must be positive")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSec <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: rate_limit.requests_per_sec and rate_limit.burst must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
