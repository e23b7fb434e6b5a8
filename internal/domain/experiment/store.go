package experiment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

// Storage is a per-visitor key/value namespace.  Backends scope keys to the
// visitor they were created for.
type Storage interface {
	// Get returns the stored value; found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ReconcilePolicy decides what happens when a persisted record exists but
// does not cover every catalog test.
type ReconcilePolicy string

const (
	// ReconcileVerbatim returns the persisted record unchanged.  Tests added
	// after the record was written get no variant and render with no
	// strategy applied.
	ReconcileVerbatim ReconcilePolicy = "verbatim"
	// ReconcileMergeMissing selects and persists variants for catalog tests
	// missing from the record.  Entries for tests no longer in the catalog are
	// kept so a temporarily disabled test resumes with the same variant.
	ReconcileMergeMissing ReconcilePolicy = "merge-missing"
)

// ParseReconcilePolicy maps a configuration string to a policy.  The empty
// string yields ReconcileMergeMissing.
func ParseReconcilePolicy(s string) (ReconcilePolicy, error) {
	switch ReconcilePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReconcileMergeMissing:
		return ReconcileMergeMissing, nil
	case ReconcileVerbatim:
		return ReconcileVerbatim, nil
	default:
		return "", apperrors.Newf(apperrors.ErrCodeInvalidConfig, "unknown reconcile policy %q", s)
	}
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithReconcilePolicy sets the policy for records missing catalog tests.
func WithReconcilePolicy(p ReconcilePolicy) StoreOption {
	return func(s *Store) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithStoreLogger sets the logger malformed records are reported to.
func WithStoreLogger(l logging.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store owns one visitor's assignment record.
type Store struct {
	storage  Storage
	selector *Selector
	policy   ReconcilePolicy
	logger   logging.Logger
}

// NewStore binds a Store to storage.
func NewStore(storage Storage, selector *Selector, opts ...StoreOption) *Store {
	if selector == nil {
		selector = NewSelector(nil)
	}
	s := &Store{
		storage:  storage,
		selector: selector,
		policy:   ReconcileMergeMissing,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the reconcile policy in effect.
func (s *Store) Policy() ReconcilePolicy { return s.policy }

// LoadOrCreate returns the persisted record, creating one variant per catalog
// test when none exists or the stored data cannot be decoded.  A fresh record
// is written exactly once.
func (s *Store) LoadOrCreate(ctx context.Context, catalog *Catalog) (Assignment, error) {
	current, ok, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		fresh := s.selector.Assign(catalog)
		if err := s.write(ctx, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	if s.policy != ReconcileMergeMissing {
		return current, nil
	}
	added := 0
	for i := range catalog.tests {
		def := &catalog.tests[i]
		if _, has := current[def.Name]; has {
			continue
		}
		current[def.Name] = s.selector.Pick(def)
		added++
	}
	if added > 0 {
		if err := s.write(ctx, current); err != nil {
			return nil, err
		}
	}
	return current, nil
}

// OverrideOne forces test to variant, creating the record if absent.  The
// value is not checked against the catalog.
func (s *Store) OverrideOne(ctx context.Context, test, variant string) error {
	current, ok, err := s.read(ctx)
	if err != nil {
		return err
	}
	if !ok {
		current = Assignment{}
	}
	current[test] = variant
	return s.write(ctx, current)
}

// Reset deletes the record; the next LoadOrCreate re-randomizes every test.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.storage.Remove(ctx, StorageKey); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeAssignmentStorage, "remove assignments")
	}
	return nil
}

// GetCurrent returns the persisted record, or an empty one.
func (s *Store) GetCurrent(ctx context.Context) (Assignment, error) {
	current, ok, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Assignment{}, nil
	}
	return current, nil
}

func (s *Store) read(ctx context.Context) (Assignment, bool, error) {
	raw, found, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.ErrCodeAssignmentStorage, "read assignments")
	}
	if !found {
		return nil, false, nil
	}
	a, ok := ParseAssignment(raw)
	if !ok {
		s.logger.Warn("discarding malformed assignment record", logging.Int("bytes", len(raw)))
		return nil, false, nil
	}
	return a, true, nil
}

func (s *Store) write(ctx context.Context, a Assignment) error {
	raw, err := a.Marshal()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "encode assignments")
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeAssignmentStorage, "write assignments")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MemoryStorage
// ─────────────────────────────────────────────────────────────────────────────

// MemoryStorage is a process-local Storage.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MemoryNamespaces hands out one MemoryStorage per visitor.
type MemoryNamespaces struct {
	mu       sync.Mutex
	visitors map[string]*MemoryStorage
}

// NewMemoryNamespaces returns an empty set of namespaces.
func NewMemoryNamespaces() *MemoryNamespaces {
	return &MemoryNamespaces{visitors: make(map[string]*MemoryStorage)}
}

// ForVisitor returns the storage of visitorID, creating it on first use.
func (n *MemoryNamespaces) ForVisitor(visitorID string) Storage {
	n.mu.Lock()
	defer n.mu.Unlock()
	s, ok := n.visitors[visitorID]
	if !ok {
		s = NewMemoryStorage()
		n.visitors[visitorID] = s
	}
	return s
}

// String implements fmt.Stringer for debugging.
func (n *MemoryNamespaces) String() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fmt.Sprintf("memory(%d visitors)", len(n.visitors))
}

//Personal.AI order the ending
