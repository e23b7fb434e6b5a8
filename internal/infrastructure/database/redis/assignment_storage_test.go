package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/landing-ab/internal/domain/experiment"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/landing-ab/pkg/errors"
)

type AssignmentStorageTestSuite struct {
	suite.Suite
	client *Client
	mr     *miniredis.Miniredis
	ns     *AssignmentNamespaces
}

func (s *AssignmentStorageTestSuite) SetupTest() {
	s.client, s.mr = newTestClient(s.T())
	s.ns = NewAssignmentNamespaces(s.client)
}

func (s *AssignmentStorageTestSuite) TestGetMissing() {
	_, found, err := s.ns.ForVisitor("v1").Get(context.Background(), experiment.StorageKey)
	s.NoError(err)
	s.False(found)
}

func (s *AssignmentStorageTestSuite) TestSetGetRemove() {
	ctx := context.Background()
	st := s.ns.ForVisitor("v1")

	s.Require().NoError(st.Set(ctx, experiment.StorageKey, `{"faq":"with-faq"}`))
	v, found, err := st.Get(ctx, experiment.StorageKey)
	s.NoError(err)
	s.True(found)
	s.Equal(`{"faq":"with-faq"}`, v)

	ttl, err := s.client.GetUnderlyingClient().TTL(ctx, "landing:visitor:v1:ab_test_assignments").Result()
	s.NoError(err)
	s.Equal(time.Duration(-1), ttl, "assignment records never expire")

	s.Require().NoError(st.Remove(ctx, experiment.StorageKey))
	_, found, _ = st.Get(ctx, experiment.StorageKey)
	s.False(found)
}

func (s *AssignmentStorageTestSuite) TestVisitorsAreIsolated() {
	ctx := context.Background()
	s.Require().NoError(s.ns.ForVisitor("a").Set(ctx, "k", "1"))
	_, found, err := s.ns.ForVisitor("b").Get(ctx, "k")
	s.NoError(err)
	s.False(found)
}

func (s *AssignmentStorageTestSuite) TestStoreRoundTrip() {
	ctx := context.Background()
	catalog := experiment.DefaultCatalog()
	store := experiment.NewStore(s.ns.ForVisitor("v2"), experiment.NewSelector(experiment.NewRandomSource(7)))

	first, err := store.LoadOrCreate(ctx, catalog)
	s.Require().NoError(err)
	s.Len(first, catalog.Len())

	again := experiment.NewStore(s.ns.ForVisitor("v2"), nil)
	second, err := again.LoadOrCreate(ctx, catalog)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *AssignmentStorageTestSuite) TestRecordOutlivesAYear() {
	ctx := context.Background()
	catalog := experiment.DefaultCatalog()
	st := s.ns.ForVisitor("v3")

	firstVariants := experiment.NewSelector(experiment.SourceFunc(func() float64 { return 0 }))
	lastVariants := experiment.NewSelector(experiment.SourceFunc(func() float64 { return 0.999 }))

	first, err := experiment.NewStore(st, firstVariants).LoadOrCreate(ctx, catalog)
	s.Require().NoError(err)

	for month := 1; month <= 13; month++ {
		s.mr.FastForward(31 * 24 * time.Hour)
		got, err := experiment.NewStore(st, lastVariants).LoadOrCreate(ctx, catalog)
		s.Require().NoError(err)
		s.Equal(first, got, "month %d", month)
	}
	s.True(s.mr.Exists("landing:visitor:v3:ab_test_assignments"))
}

func TestAssignmentStorageSuite(t *testing.T) {
	suite.Run(t, new(AssignmentStorageTestSuite))
}

func TestAssignmentStorage_BackendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewClientFromUniversal(db, "", logging.NewNopLogger())
	st := NewAssignmentNamespaces(client).ForVisitor("v1")

	mock.ExpectGet("landing:visitor:v1:ab_test_assignments").SetErr(errors.New("connection reset"))
	_, _, err := st.Get(context.Background(), experiment.StorageKey)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))

	mock.ExpectSet("landing:visitor:v1:ab_test_assignments", "{}", 0).SetErr(errors.New("read only"))
	err = st.Set(context.Background(), experiment.StorageKey, "{}")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))

	assert.NoError(t, mock.ExpectationsWereMet())
}

//Personal.AI order the ending
