// Package repositories provides PostgreSQL-backed implementations of the
// landing domain repository interfaces.
package repositories

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/database/postgres"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/landing-ab/pkg/errors"
)

var _ lead.Repository = (*LeadRepository)(nil)

// MaxListLimit caps ListRecent.
const MaxListLimit = 500

const leadColumns = `id, source, visitor_id, created_at, name, contact, task, package,
	task_type, hours_per_week, timeline, estimated_savings, page_url, referrer, utm_source`

// LeadRepository stores leads and the variants the visitor saw.
type LeadRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewLeadRepository constructs a ready-to-use LeadRepository.
func NewLeadRepository(pool *pgxpool.Pool, logger logging.Logger) *LeadRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &LeadRepository{pool: pool, logger: logger.Named("lead_repo")}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save
// ─────────────────────────────────────────────────────────────────────────────

// Save inserts the lead and its assignments in one transaction.  Saving the
// same id twice is a no-op.
func (r *LeadRepository) Save(ctx context.Context, l *lead.Lead) error {
	r.logger.Debug("LeadRepository.Save", logging.String("lead_id", l.ID))

	return postgres.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO leads (`+leadColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			ON CONFLICT (id) DO NOTHING`,
			l.ID, string(l.Source), l.VisitorID, l.CreatedAt, l.Name, l.Contact, l.Task, l.Package,
			l.TaskType, l.HoursPerWeek, l.Timeline, l.EstimatedSavings, l.PageURL, l.Referrer, l.UTMSource,
		)
		if err != nil {
			r.logger.Error("LeadRepository.Save: insert lead", logging.Err(err))
			return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to insert lead")
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		return r.insertAssignments(ctx, tx, l.ID, l.Assignments)
	})
}

func (r *LeadRepository) insertAssignments(ctx context.Context, tx pgx.Tx, leadID string, a map[string]string) error {
	if len(a) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, test := range sortedKeys(a) {
		batch.Queue(`INSERT INTO lead_assignments (lead_id, test_name, variant) VALUES ($1,$2,$3)`, leadID, test, a[test])
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error("LeadRepository.insertAssignments", logging.Err(err), logging.String("lead_id", leadID))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to insert lead assignments")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// GetByID loads one lead with its assignments.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*lead.Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, appErrors.New(appErrors.ErrCodeLeadNotFound, "lead not found").WithDetail(id)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load lead")
	}
	byLead, err := r.assignmentsFor(ctx, []string{l.ID})
	if err != nil {
		return nil, err
	}
	l.Assignments = byLead[l.ID]
	return l, nil
}

// ListRecent returns the newest leads first.  limit is clamped to
// [1, MaxListLimit].
func (r *LeadRepository) ListRecent(ctx context.Context, limit int) ([]*lead.Lead, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list leads")
	}
	defer rows.Close()

	var (
		out []*lead.Lead
		ids []string
	)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan lead")
		}
		out = append(out, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list leads")
	}
	if len(ids) == 0 {
		return out, nil
	}
	byLead, err := r.assignmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range out {
		l.Assignments = byLead[l.ID]
	}
	return out, nil
}

func (r *LeadRepository) assignmentsFor(ctx context.Context, ids []string) (map[string]map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT lead_id, test_name, variant FROM lead_assignments WHERE lead_id = ANY($1)`, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load lead assignments")
	}
	defer rows.Close()

	out := make(map[string]map[string]string, len(ids))
	for rows.Next() {
		var leadID, test, variant string
		if err := rows.Scan(&leadID, &test, &variant); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan lead assignment")
		}
		if out[leadID] == nil {
			out[leadID] = map[string]string{}
		}
		out[leadID][test] = variant
	}
	return out, rows.Err()
}

func scanLead(row scanner) (*lead.Lead, error) {
	var (
		l      lead.Lead
		source string
	)
	err := row.Scan(
		&l.ID, &source, &l.VisitorID, &l.CreatedAt, &l.Name, &l.Contact, &l.Task, &l.Package,
		&l.TaskType, &l.HoursPerWeek, &l.Timeline, &l.EstimatedSavings, &l.PageURL, &l.Referrer, &l.UTMSource,
	)
	if err != nil {
		return nil, err
	}
	l.Source = lead.Source(source)
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Personal.AI order the ending
