package migration

import (
	"context"

	"cv-builder/internal/logger"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func Migrations() []Migration {
	return []Migration{
		{Name: "create_export_jobs", Up: createExportJobs},
		{Name: "index_export_jobs_created_at", Up: indexExportJobsCreatedAt},
	}
}

// RunMigrations executes all migrations on startup. A nil pool is a no-op.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return nil
	}
	logger.Info().Msg("starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, pool); err != nil {
			logger.Error().Err(err).Str("name", m.Name).Msg("migration failed")
			return err
		}
		logger.Info().Str("name", m.Name).Msg("migration completed")
	}
	return nil
}

func createExportJobs(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS export_jobs (
			id UUID PRIMARY KEY,
			filename TEXT NOT NULL,
			format TEXT NOT NULL,
			template TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			size_bytes INTEGER NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func indexExportJobsCreatedAt(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS export_jobs_created_at_idx ON export_jobs (created_at DESC);`); err != nil {
		// the table is usable without the index
		logger.Warn().Err(err).Msg("could not create export_jobs index")
	}
	return nil
}
