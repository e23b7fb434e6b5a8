// Package config provides configuration loading, defaults, and validation for
// the landing service.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 15 * time.Second
	DefaultServerShutdownTimeout = 15 * time.Second
	DefaultServerMaxBodySize     = 1 << 20

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "landing"
	DefaultDBMaxConns = 10

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "landing:"

	DefaultKafkaBroker         = "localhost:9092"
	DefaultKafkaGroupID        = "landing-worker"
	DefaultKafkaAnalyticsTopic = "landing.analytics.events"
	DefaultKafkaLeadsTopic     = "landing.leads.submitted"
	DefaultKafkaDeadLetter     = "landing.dead-letter"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "landing-leads"

	DefaultMetricsNamespace = "landing"
	DefaultMetricsPath      = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultExperimentStorage   = "cookie"
	DefaultExperimentReconcile = "merge-missing"
	DefaultCookieMaxAge        = 365 * 24 * time.Hour

	DefaultPageViewTTL       = 30 * time.Minute
	DefaultSweepSchedule     = "@every 1m"
	DefaultInactivityTimeout = 30 * time.Second
	DefaultMobileMaxWidth    = 768
	DefaultExitEdgeThreshold = 10
	DefaultTelegramChatUser  = "pavellipin"

	DefaultChatStore       = "memory"
	DefaultConversationTTL = 24 * time.Hour

	DefaultNotifyTimeout = 10 * time.Second

	DefaultRateLimitRPS   = 1.0
	DefaultRateLimitBurst = 5
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set (non-zero values) are left unchanged so
// that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.AnalyticsTopic == "" {
		cfg.Kafka.AnalyticsTopic = DefaultKafkaAnalyticsTopic
	}
	if cfg.Kafka.LeadsTopic == "" {
		cfg.Kafka.LeadsTopic = DefaultKafkaLeadsTopic
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultKafkaDeadLetter
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Experiments ───────────────────────────────────────────────────────────
	if cfg.Experiments.Storage == "" {
		cfg.Experiments.Storage = DefaultExperimentStorage
	}
	if cfg.Experiments.Reconcile == "" {
		cfg.Experiments.Reconcile = DefaultExperimentReconcile
	}
	if cfg.Experiments.CookieMaxAge == 0 {
		cfg.Experiments.CookieMaxAge = DefaultCookieMaxAge
	}

	// ── Page ──────────────────────────────────────────────────────────────────
	if cfg.Page.PageViewTTL == 0 {
		cfg.Page.PageViewTTL = DefaultPageViewTTL
	}
	if cfg.Page.SweepSchedule == "" {
		cfg.Page.SweepSchedule = DefaultSweepSchedule
	}
	if cfg.Page.InactivityTimeout == 0 {
		cfg.Page.InactivityTimeout = DefaultInactivityTimeout
	}
	if cfg.Page.MobileMaxWidth == 0 {
		cfg.Page.MobileMaxWidth = DefaultMobileMaxWidth
	}
	if cfg.Page.ExitEdgeThreshold == 0 {
		cfg.Page.ExitEdgeThreshold = DefaultExitEdgeThreshold
	}
	if cfg.Page.TelegramChatUser == "" {
		cfg.Page.TelegramChatUser = DefaultTelegramChatUser
	}

	// ── Chat ──────────────────────────────────────────────────────────────────
	if cfg.Chat.Store == "" {
		cfg.Chat.Store = DefaultChatStore
	}
	if cfg.Chat.ConversationTTL == 0 {
		cfg.Chat.ConversationTTL = DefaultConversationTTL
	}

	// ── Notify ────────────────────────────────────────────────────────────────
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = DefaultNotifyTimeout
	}

	// ── Rate limit ────────────────────────────────────────────────────────────
	if cfg.RateLimit.RequestsPerSec == 0 {
		cfg.RateLimit.RequestsPerSec = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}
}

// Default returns a Config populated entirely with defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
