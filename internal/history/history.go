// Package history archives the summary of each generated report in PostgreSQL.
// It is write-only from the generator's side: nothing read back from here
// feeds into a later report.
package history

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kamilpajak/qadoc/pkg/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a pgx pool
type Store struct {
	pool *pgxpool.Pool
}

// Run identifies one generated report
type Run struct {
	ID          uuid.UUID
	RunID       string
	DocumentID  string
	OutputPath  string
	GeneratedAt time.Time
}

// RunSummary is a stored run with its result counts
type RunSummary struct {
	Run
	Total  int
	Passed int
	Failed int
}

// Open connects to the database
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate applies the embedded schema migrations
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

var resultColumns = []string{"run_pk", "position", "case_id", "title", "browser", "status", "start_time", "duration_ms", "error"}

// Record stores a run and its summary rows in one transaction. A zero run ID
// is replaced with a fresh one, which is returned.
func (s *Store) Record(ctx context.Context, run Run, rows []models.SummaryRow) (uuid.UUID, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, run_id, document_id, output_path, generated_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.RunID, run.DocumentID, run.OutputPath, run.GeneratedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert run: %w", err)
	}

	if len(rows) > 0 {
		src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{run.ID, i, r.ID, r.Title, r.Browser, string(r.Status), r.StartTime, r.DurationMS, r.Error}, nil
		})
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"run_results"}, resultColumns, src); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert results: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit run: %w", err)
	}

	return run.ID, nil
}

// Recent lists the most recently recorded runs, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.run_id, r.document_id, r.output_path, r.generated_at,
		       count(x.position),
		       count(x.position) FILTER (WHERE x.status = 'passed'),
		       count(x.position) FILTER (WHERE x.status IN ('failed', 'timedOut', 'interrupted'))
		FROM runs r
		LEFT JOIN run_results x ON x.run_pk = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.generated_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.ID, &rs.RunID, &rs.DocumentID, &rs.OutputPath, &rs.GeneratedAt, &rs.Total, &rs.Passed, &rs.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Results returns the stored summary rows of one run in their original order
func (s *Store) Results(ctx context.Context, id uuid.UUID) ([]models.SummaryRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT case_id, title, browser, status, start_time, duration_ms, error
		FROM run_results WHERE run_pk = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var out []models.SummaryRow
	for rows.Next() {
		var r models.SummaryRow
		var status string
		if err := rows.Scan(&r.ID, &r.Title, &r.Browser, &status, &r.StartTime, &r.DurationMS, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Status = models.TestStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
