package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/landing-ab/internal/testutil"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

// countingStorage wraps MemoryStorage and counts writes.
type countingStorage struct {
	*MemoryStorage
	sets int
}

func (c *countingStorage) Set(ctx context.Context, key, value string) error {
	c.sets++
	return c.MemoryStorage.Set(ctx, key, value)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStorage) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockStorage) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newTestStore(storage Storage, opts ...StoreOption) *Store {
	return NewStore(storage, NewSelector(NewRandomSource(3)), opts...)
}

func TestStore_LoadOrCreate_FirstVisit(t *testing.T) {
	ctx := context.Background()
	storage := &countingStorage{MemoryStorage: NewMemoryStorage()}
	store := newTestStore(storage)
	catalog := DefaultCatalog()

	a, err := store.LoadOrCreate(ctx, catalog)
	require.NoError(t, err)
	assert.Len(t, a, 11)
	assert.Equal(t, 1, storage.sets)

	raw, found, _ := storage.Get(ctx, StorageKey)
	require.True(t, found)
	persisted, ok := ParseAssignment(raw)
	require.True(t, ok)
	assert.Equal(t, a, persisted)
}

func TestStore_LoadOrCreate_Stable(t *testing.T) {
	ctx := context.Background()
	storage := &countingStorage{MemoryStorage: NewMemoryStorage()}
	store := newTestStore(storage)
	catalog := DefaultCatalog()

	first, err := store.LoadOrCreate(ctx, catalog)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := store.LoadOrCreate(ctx, catalog)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 1, storage.sets)
}

func TestStore_LoadOrCreate_MalformedIsRegenerated(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "[]", `"text"`, "null", `{"faq": 3}`} {
		t.Run(raw, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, StorageKey, raw))
			logger := testutil.NewMockLogger()
			store := newTestStore(storage, WithStoreLogger(logger))

			a, err := store.LoadOrCreate(ctx, DefaultCatalog())
			require.NoError(t, err)
			assert.Len(t, a, 11)
			assert.True(t, logger.HasMessage("warn", "discarding malformed assignment record"))

			stored, _, _ := storage.Get(ctx, StorageKey)
			_, ok := ParseAssignment(stored)
			assert.True(t, ok)
		})
	}
}

func TestStore_ReconcileMergeMissing(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, StorageKey, `{"faq":"without-faq","retired-test":"x"}`))
	store := newTestStore(storage)

	a, err := store.LoadOrCreate(ctx, DefaultCatalog())
	require.NoError(t, err)
	assert.Len(t, a, 12)
	assert.Equal(t, "without-faq", a[FAQ])
	assert.Equal(t, "x", a["retired-test"])

	persisted, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, persisted)
}

func TestStore_ReconcileVerbatim(t *testing.T) {
	ctx := context.Background()
	storage := &countingStorage{MemoryStorage: NewMemoryStorage()}
	require.NoError(t, storage.MemoryStorage.Set(ctx, StorageKey, `{"faq":"without-faq"}`))
	store := newTestStore(storage, WithReconcilePolicy(ReconcileVerbatim))

	a, err := store.LoadOrCreate(ctx, DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, Assignment{FAQ: "without-faq"}, a)
	assert.Zero(t, storage.sets)
}

func TestStore_InvalidVariantIsKept(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newTestStore(storage)
	require.NoError(t, store.OverrideOne(ctx, FAQ, "bogus"))

	a, err := store.LoadOrCreate(ctx, DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, "bogus", a[FAQ])
}

func TestStore_OverrideIsolation(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newTestStore(storage)
	before, err := store.LoadOrCreate(ctx, DefaultCatalog())
	require.NoError(t, err)

	require.NoError(t, store.OverrideOne(ctx, Pricing, "starting-from"))

	after, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "starting-from", after[Pricing])
	for name, v := range before {
		if name == Pricing {
			continue
		}
		assert.Equal(t, v, after[name], name)
	}
	assert.Len(t, after, len(before))
}

func TestStore_OverrideCreatesRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(NewMemoryStorage())

	require.NoError(t, store.OverrideOne(ctx, ExitIntent, "discount-popup"))
	a, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, Assignment{ExitIntent: "discount-popup"}, a)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(NewMemoryStorage())
	_, err := store.LoadOrCreate(ctx, DefaultCatalog())
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))
	a, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Empty(t, a)
}

func TestStore_StorageErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	m := &mockStorage{}
	m.On("Get", ctx, StorageKey).Return("", false, boom)
	m.On("Remove", ctx, StorageKey).Return(boom)
	store := newTestStore(m)

	_, err := store.LoadOrCreate(ctx, DefaultCatalog())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAssignmentStorage))
	assert.ErrorIs(t, err, boom)

	err = store.Reset(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAssignmentStorage))
	m.AssertExpectations(t)
}

func TestStore_WriteError(t *testing.T) {
	ctx := context.Background()
	m := &mockStorage{}
	m.On("Get", ctx, StorageKey).Return("", false, nil)
	m.On("Set", ctx, StorageKey, mock.AnythingOfType("string")).Return(errors.New("read-only"))

	_, err := newTestStore(m).LoadOrCreate(ctx, DefaultCatalog())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAssignmentStorage))
}

func TestParseReconcilePolicy(t *testing.T) {
	p, err := ParseReconcilePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ReconcileMergeMissing, p)

	p, err = ParseReconcilePolicy(" Verbatim ")
	require.NoError(t, err)
	assert.Equal(t, ReconcileVerbatim, p)

	_, err = ParseReconcilePolicy("drop-orphans")
	assert.Error(t, err)
}

func TestMemoryNamespaces(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNamespaces()
	require.NoError(t, ns.ForVisitor("a").Set(ctx, StorageKey, "{}"))

	_, found, _ := ns.ForVisitor("b").Get(ctx, StorageKey)
	assert.False(t, found)
	_, found, _ = ns.ForVisitor("a").Get(ctx, StorageKey)
	assert.True(t, found)
	assert.Equal(t, "memory(2 visitors)", ns.String())
}
