package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// Claims grants at-most-once processing of a named unit of work across
// replicas, e.g. one notification per lead id when a message is redelivered.
type Claims struct {
	client *Client
	owner  string
	logger logging.Logger
}

func NewClaims(client *Client, log logging.Logger) *Claims {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Claims{client: client, owner: uuid.NewString(), logger: log}
}

// Claim marks name as taken for ttl.  It reports false when another claim is
// live.
func (c *Claims) Claim(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.client.Key("claim", name), c.owner, ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "claim").WithDetail(name)
	}
	if !ok {
		c.logger.Debug("claim already held", logging.String("name", name))
	}
	return ok, nil
}

// Release drops a claim held by this owner so the work can be retried.
func (c *Claims) Release(ctx context.Context, name string) error {
	if c.client.isClosed() {
		return ErrClientClosed
	}
	if err := releaseScript.Run(ctx, c.client.GetUnderlyingClient(), []string{c.client.Key("claim", name)}, c.owner).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "release claim").WithDetail(name)
	}
	return nil
}

//Personal.AI order the ending
