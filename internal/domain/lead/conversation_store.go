package lead

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

// ConversationStore keeps chat conversations between requests.
type ConversationStore interface {
	Get(ctx context.Context, id string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, id string) error
}

// ErrConversationNotFound is returned for unknown or expired conversations.
func ErrConversationNotFound(id string) error {
	return apperrors.New(apperrors.ErrCodeConversationNotFound, "conversation not found").WithDetail(id)
}

type memoryEntry struct {
	conv    Conversation
	expires time.Time
}

// MemoryConversationStore is a process-local ConversationStore with expiry.
type MemoryConversationStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]memoryEntry
}

// NewMemoryConversationStore returns a store whose entries expire ttl after
// their last save.  ttl <= 0 disables expiry.
func NewMemoryConversationStore(ttl time.Duration) *MemoryConversationStore {
	return &MemoryConversationStore{ttl: ttl, now: time.Now, data: make(map[string]memoryEntry)}
}

func (s *MemoryConversationStore) Get(_ context.Context, id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[id]
	if !ok {
		return nil, ErrConversationNotFound(id)
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		delete(s.data, id)
		return nil, ErrConversationNotFound(id)
	}
	c := cloneConversation(e.conv)
	return &c, nil
}

func (s *MemoryConversationStore) Save(_ context.Context, c *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{conv: cloneConversation(*c)}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.data[c.ID] = e
	return nil
}

func (s *MemoryConversationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func cloneConversation(c Conversation) Conversation {
	answers := make(map[string]string, len(c.Answers))
	for k, v := range c.Answers {
		answers[k] = v
	}
	c.Answers = answers
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		c.CompletedAt = &t
	}
	return c
}

// MemoryClaims is a process-local Claimer.
type MemoryClaims struct {
	mu     sync.Mutex
	now    func() time.Time
	claims map[string]time.Time
}

// NewMemoryClaims returns an empty MemoryClaims.
func NewMemoryClaims() *MemoryClaims {
	return &MemoryClaims{now: time.Now, claims: make(map[string]time.Time)}
}

// Claim marks name as taken for ttl.  It reports false while an earlier
// claim is live.
func (m *MemoryClaims) Claim(_ context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, exp := range m.claims {
		if now.After(exp) {
			delete(m.claims, k)
		}
	}
	if _, held := m.claims[name]; held {
		return false, nil
	}
	m.claims[name] = now.Add(ttl)
	return true, nil
}

//Personal.AI order the ending
