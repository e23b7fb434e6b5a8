package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/internal/testutil"
)

func TestMockLogger_Records(t *testing.T) {
	logger := testutil.NewMockLogger()
	logger.Info("variant assigned", logging.Test("faq"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	v, ok := messages[0].Field(logging.KeyTest)
	assert.True(t, ok)
	assert.Equal(t, "faq", v)

	logger.Clear()
	assert.Empty(t, logger.GetMessages())
}

func TestMockLogger_ChildrenShareStore(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("redis").Named("claims").With(logging.VisitorID("v-1"))
	child.Warn("claim lost", logging.LeadID("l-1"))

	e, ok := logger.Find("warn", "claim lost")
	require.True(t, ok)
	assert.Equal(t, "redis.claims", e.Logger)
	vid, _ := e.Field(logging.KeyVisitorID)
	lid, _ := e.Field(logging.KeyLeadID)
	assert.Equal(t, "v-1", vid)
	assert.Equal(t, "l-1", lid)

	assert.Equal(t, 1, logger.CountLevel("warn"))
	assert.True(t, logger.HasMessageContaining("warn", "lost"))
	assert.False(t, logger.HasMessage("info", "claim lost"))
}

func TestMockLogger_WithDoesNotLeak(t *testing.T) {
	logger := testutil.NewMockLogger()
	_ = logger.With(logging.VisitorID("v-1"))
	logger.Info("plain")

	e, ok := logger.Find("info", "plain")
	require.True(t, ok)
	_, bound := e.Field(logging.KeyVisitorID)
	assert.False(t, bound)
}

//Personal.AI order the ending
