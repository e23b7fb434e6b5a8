//go:build integration

// Package repositories_test provides integration tests for PostgreSQL repository
// implementations.  Tests require Docker and are gated behind the "integration"
// build tag.
package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/postgres"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/landing-ab/pkg/errors"
)

// startPostgres launches a PostgreSQL 16 container, migrates it and returns a
// connected pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "landing_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/landing_test?sslmode=disable", host, port.Port())
	require.NoError(t, postgres.RunMigrations(dsn))
	require.NoError(t, postgres.RunMigrations(dsn), "re-running is a no-op")

	version, dirty, err := postgres.MigrationStatus(dsn)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func newLead(id string, at time.Time) *lead.Lead {
	return &lead.Lead{
		ID:          id,
		Source:      lead.SourceContactForm,
		VisitorID:   "visitor-1",
		CreatedAt:   at,
		Name:        "Иван",
		Contact:     "@ivan_petrov",
		Task:        "Автоматизировать заявки",
		Package:     lead.DefaultPackage,
		UTMSource:   lead.DefaultUTMSource,
		Assignments: map[string]string{"cta-text": "free-audit", "pricing": "with-prices"},
	}
}

func TestLeadRepository_SaveAndGet(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewLeadRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newLead("11111111-1111-1111-1111-111111111111", at)
	require.NoError(t, repo.Save(ctx, l))
	require.NoError(t, repo.Save(ctx, l), "duplicate save is a no-op")

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Contact, got.Contact)
	assert.Equal(t, lead.SourceContactForm, got.Source)
	assert.True(t, at.Equal(got.CreatedAt))
	assert.Equal(t, l.Assignments, got.Assignments)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeLeadNotFound))
}

func TestLeadRepository_ListRecent(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewLeadRepository(pool, nil)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		l := newLead(fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i), base.Add(time.Duration(i)*time.Hour))
		if i == 1 {
			l.Assignments = nil
		}
		require.NoError(t, repo.Save(ctx, l))
	}

	leads, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "00000000-0000-0000-0000-000000000002", leads[0].ID)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", leads[1].ID)
	assert.Len(t, leads[0].Assignments, 2)
	assert.Empty(t, leads[1].Assignments)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	err := postgres.WithTransaction(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO leads (id, source, created_at, contact) VALUES ('x', 'contact_form', now(), 'a@b.co')`)
		require.NoError(t, err)
		return fmt.Errorf("intentional error for rollback test")
	})
	require.Error(t, err)

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads").Scan(&count))
	assert.Equal(t, 0, count)
}
