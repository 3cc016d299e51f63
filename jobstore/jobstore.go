// Package jobstore persists render job outcomes to Postgres for the web
// layer to consume. The repository is optional at runtime; a nil repository
// disables history recording.
package jobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Record struct {
	JobID       string
	ContentType string
	Title       string
	OutputPath  string
	Duration    float64
	FileSize    int64
	Status      string
	Error       string
	CreatedAt   time.Time
}

// Repository records and serves render job outcomes.
type Repository interface {
	RecordResult(ctx context.Context, rec Record) error
	GetResult(ctx context.Context, jobID string) (*Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS render_jobs (
    job_id       TEXT PRIMARY KEY,
    content_type TEXT NOT NULL,
    title        TEXT NOT NULL DEFAULT '',
    output_path  TEXT NOT NULL DEFAULT '',
    duration     DOUBLE PRECISION NOT NULL DEFAULT 0,
    file_size    BIGINT NOT NULL DEFAULT 0,
    status       TEXT NOT NULL,
    error        TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (*PostgresRepository, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to ensure render_jobs table: %w", err)
	}
	return &PostgresRepository{pool: pool, logger: logger}, nil
}

func (r *PostgresRepository) RecordResult(ctx context.Context, rec Record) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO render_jobs (job_id, content_type, title, output_path, duration, file_size, status, error)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         ON CONFLICT (job_id) DO UPDATE SET
             output_path = EXCLUDED.output_path,
             duration    = EXCLUDED.duration,
             file_size   = EXCLUDED.file_size,
             status      = EXCLUDED.status,
             error       = EXCLUDED.error`,
		rec.JobID, rec.ContentType, rec.Title, rec.OutputPath,
		rec.Duration, rec.FileSize, rec.Status, rec.Error)
	if err != nil {
		return fmt.Errorf("failed to record render job %s: %w", rec.JobID, err)
	}

	r.logger.Debug("Recorded render job outcome",
		slog.String("job_id", rec.JobID),
		slog.String("status", rec.Status))
	return nil
}

// GetResult fetches one job's outcome. Absence is an expected condition,
// reported as a nil record rather than an error.
func (r *PostgresRepository) GetResult(ctx context.Context, jobID string) (*Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx,
		`SELECT job_id, content_type, title, output_path, duration, file_size, status, error, created_at
         FROM render_jobs WHERE job_id = $1`, jobID).
		Scan(&rec.JobID, &rec.ContentType, &rec.Title, &rec.OutputPath,
			&rec.Duration, &rec.FileSize, &rec.Status, &rec.Error, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch render job %s: %w", jobID, err)
	}
	return &rec, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT job_id, content_type, title, output_path, duration, file_size, status, error, created_at
         FROM render_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list render jobs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.JobID, &rec.ContentType, &rec.Title, &rec.OutputPath,
			&rec.Duration, &rec.FileSize, &rec.Status, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan render job row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
