package infrastructure

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewExportsPool connects to the export-log database. An empty dsn means the
// log is disabled and a nil pool is returned.
func NewExportsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect exports db: %w", err)
	}
	return pool, nil
}
