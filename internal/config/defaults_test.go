package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaLeadsTopic, cfg.Kafka.LeadsTopic)
	assert.Equal(t, "cookie", cfg.Experiments.Storage)
	assert.Equal(t, "merge-missing", cfg.Experiments.Reconcile)
	assert.Equal(t, 30*time.Second, cfg.Page.InactivityTimeout)
	assert.Equal(t, 768, cfg.Page.MobileMaxWidth)
	assert.Equal(t, float64(10), cfg.Page.ExitEdgeThreshold)
	assert.Equal(t, "memory", cfg.Chat.Store)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Experiments.Storage = "redis"
	cfg.Page.InactivityTimeout = 5 * time.Second
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Experiments.Storage)
	assert.Equal(t, 5*time.Second, cfg.Page.InactivityTimeout)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
