// Package config provides configuration loading, defaults, and validation for
// the landing service.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "LANDING"

// bindKeys lists every leaf key so that LANDING_* variables resolve even when
// no config file mentions the key (viper only consults the environment for
// keys it already knows about).
var bindKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout", "server.console_token",
	"server.allowed_origins",
	"database.enabled", "database.host", "database.port", "database.user",
	"database.password", "database.db_name", "database.ssl_mode", "database.max_conns",
	"database.min_conns", "database.conn_max_lifetime", "database.conn_max_idle_time",
	"database.migrate_on_start",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size", "redis.min_idle_conns",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.key_prefix",
	"kafka.enabled", "kafka.brokers", "kafka.group_id", "kafka.auto_offset_reset",
	"kafka.analytics_topic", "kafka.leads_topic", "kafka.dead_letter_topic", "kafka.async_leads",
	"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key",
	"minio.bucket", "minio.region", "minio.use_ssl",
	"metrics.enabled", "metrics.namespace", "metrics.subsystem", "metrics.path",
	"log.level", "log.format", "log.output_paths", "log.sampling",
	"experiments.storage", "experiments.reconcile", "experiments.catalog_file",
	"experiments.cookie_max_age", "experiments.cookie_secure",
	"page.template_path", "page.watch_template", "page.page_view_ttl", "page.sweep_schedule",
	"page.inactivity_timeout", "page.mobile_max_width", "page.exit_edge_threshold",
	"page.telegram_chat_user",
	"chat.store", "chat.conversation_ttl",
	"notify.telegram.bot_token", "notify.telegram.chat_id", "notify.sheets_webhook_url",
	"notify.timeout",
	"rate_limit.enabled", "rate_limit.requests_per_sec", "rate_limit.burst",
}

// newViper builds a pre-configured Viper instance: YAML file type, LANDING_
// env prefix, automatic env binding, and a key replacer that maps "." → "_"
// so that "redis.addr" resolves to "LANDING_REDIS_ADDR".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range bindKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges any LANDING_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from LANDING_* environment variables,
// with no config file required.
//
//	LANDING_<SECTION>_<FIELD>   e.g.  LANDING_REDIS_ADDR, LANDING_EXPERIMENTS_STORAGE
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrEnv loads configPath when non-empty and falls back to LoadFromEnv.
func LoadOrEnv(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  Only the log level
// and rate-limit thresholds are meant to be applied at runtime.
//
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	_ = v.ReadInConfig()

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad is a convenience wrapper around Load that panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
