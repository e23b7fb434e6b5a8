package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/pkg/errors"
)

var _ lead.ConversationStore = (*ConversationStore)(nil)

// ConversationStore persists chat conversations as JSON under
// <prefix>chat:<id>.
type ConversationStore struct {
	client *Client
	ttl    time.Duration
}

// NewConversationStore returns a store whose entries expire ttl after their
// last save.
func NewConversationStore(client *Client, ttl time.Duration) *ConversationStore {
	return &ConversationStore{client: client, ttl: ttl}
}

func (s *ConversationStore) Get(ctx context.Context, id string) (*lead.Conversation, error) {
	raw, err := s.client.Get(ctx, s.client.Key("chat", id)).Bytes()
	if err == redis.Nil {
		return nil, lead.ErrConversationNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "load conversation").WithDetail(id)
	}
	var c lead.Conversation
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode conversation").WithDetail(id)
	}
	if c.Answers == nil {
		c.Answers = map[string]string{}
	}
	return &c, nil
}

func (s *ConversationStore) Save(ctx context.Context, c *lead.Conversation) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode conversation").WithDetail(c.ID)
	}
	if err := s.client.Set(ctx, s.client.Key("chat", c.ID), raw, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "save conversation").WithDetail(c.ID)
	}
	return nil
}

func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.client.Key("chat", id)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "delete conversation").WithDetail(id)
	}
	return nil
}

//Personal.AI order the ending
