package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/pkg/errors"
)

var _ experiment.Storage = (*AssignmentStorage)(nil)

// AssignmentStorage is the experiment.Storage of one visitor.  Keys live at
// <prefix>visitor:<id>:<key> and carry no expiry: a record goes away only
// through Remove.
type AssignmentStorage struct {
	client    *Client
	visitorID string
}

// AssignmentNamespaces hands out per-visitor AssignmentStorage.
type AssignmentNamespaces struct {
	client *Client
}

func NewAssignmentNamespaces(client *Client) *AssignmentNamespaces {
	return &AssignmentNamespaces{client: client}
}

func (n *AssignmentNamespaces) ForVisitor(visitorID string) experiment.Storage {
	return &AssignmentStorage{client: n.client, visitorID: visitorID}
}

func (n *AssignmentNamespaces) String() string { return "redis" }

func (s *AssignmentStorage) key(k string) string {
	return s.client.Key("visitor", s.visitorID, k)
}

func (s *AssignmentStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrCodeCacheError, "redis get").WithDetail(s.key(key))
	}
	return v, true, nil
}

func (s *AssignmentStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis set").WithDetail(s.key(key))
	}
	return nil
}

func (s *AssignmentStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis del").WithDetail(s.key(key))
	}
	return nil
}

//Personal.AI order the ending
