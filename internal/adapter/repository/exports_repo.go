package repository

import (
	"context"
	"fmt"

	"cv-builder/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ExportsRepo stores export metadata. With a nil pool every call is a no-op.
type ExportsRepo struct {
	pool *pgxpool.Pool
}

func NewExportsRepo(pool *pgxpool.Pool) *ExportsRepo {
	return &ExportsRepo{pool: pool}
}

func (r *ExportsRepo) Enabled() bool { return r != nil && r.pool != nil }

func (r *ExportsRepo) Save(ctx context.Context, j *domain.ExportJob) error {
	if !r.Enabled() {
		return nil
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO export_jobs (id, filename, format, template, status, error, size_bytes, location, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, error = EXCLUDED.error, size_bytes = EXCLUDED.size_bytes, location = EXCLUDED.location`,
		j.ID, j.Filename, string(j.Format), j.Template, j.Status, j.Error, j.SizeBytes, j.Location, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("save export job: %w", err)
	}
	return nil
}

// Recent returns the newest export records first.
func (r *ExportsRepo) Recent(ctx context.Context, limit int) ([]domain.ExportJob, error) {
	if !r.Enabled() {
		return []domain.ExportJob{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `SELECT id, filename, format, template, status, error, size_bytes, location, created_at
		FROM export_jobs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query export jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.ExportJob{}
	for rows.Next() {
		var (
			j      domain.ExportJob
			format string
		)
		if err := rows.Scan(&j.ID, &j.Filename, &format, &j.Template, &j.Status, &j.Error, &j.SizeBytes, &j.Location, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export job: %w", err)
		}
		j.Format = domain.ExportFormat(format)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
