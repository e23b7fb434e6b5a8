package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
)

func TestClaims_AtMostOnce(t *testing.T) {
	client, mr := newTestClient(t)
	a := NewClaims(client, logging.NewNopLogger())
	b := NewClaims(client, nil)
	ctx := context.Background()

	ok, err := a.Claim(ctx, "lead:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Claim(ctx, "lead:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// only the owner can release
	require.NoError(t, b.Release(ctx, "lead:1"))
	assert.True(t, mr.Exists("landing:claim:lead:1"))
	require.NoError(t, a.Release(ctx, "lead:1"))
	assert.False(t, mr.Exists("landing:claim:lead:1"))

	ok, _ = b.Claim(ctx, "lead:1", time.Minute)
	assert.True(t, ok)
}

func TestClaims_Expire(t *testing.T) {
	client, mr := newTestClient(t)
	c := NewClaims(client, nil)
	ctx := context.Background()

	ok, _ := c.Claim(ctx, "job", time.Second)
	require.True(t, ok)
	mr.FastForward(2 * time.Second)
	ok, _ = NewClaims(client, nil).Claim(ctx, "job", time.Second)
	assert.True(t, ok)
}
