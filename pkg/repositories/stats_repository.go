package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/heaplens/heaplens/pkg/apperrors"
	"github.com/heaplens/heaplens/pkg/database"
	"github.com/heaplens/heaplens/pkg/models"
)

// StatsRepository defines read-only access to the engine's table
// statistics and size bookkeeping. Both queries reflect the engine's
// current (possibly stale) state; callers own staleness and may call
// Analyze first to refresh it. No atomicity is promised between a
// TableStats call and a StorageSizes call - autovacuum may move the
// counters in between.
type StatsRepository interface {
	TableStats(ctx context.Context, table string) (*models.TableStats, error)
	StorageSizes(ctx context.Context, table string) (*models.StorageSizes, error)
	Analyze(ctx context.Context, table string) error
}

// statsRepository implements StatsRepository using PostgreSQL.
type statsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new statistics repository over db.
func NewStatsRepository(db *database.DB) StatsRepository {
	return &statsRepository{db: db}
}

// TableStats returns the row-activity counters recorded for table in
// pg_stat_user_tables. Returns apperrors.ErrNotFound when the view has
// no row for the table (never a zero-filled record).
func (r *statsRepository) TableStats(ctx context.Context, table string) (*models.TableStats, error) {
	query := `
		SELECT n_live_tup, n_dead_tup, n_tup_ins, n_tup_upd, n_tup_del
		FROM pg_stat_user_tables
		WHERE relname = $1
		  AND schemaname = current_schema()`

	var stats models.TableStats
	err := r.db.QueryRow(ctx, query, table).Scan(
		&stats.LiveTuples,
		&stats.DeadTuples,
		&stats.Inserts,
		&stats.Updates,
		&stats.Deletes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no statistics for table %q: %w", table, apperrors.ErrNotFound)
		}
		return nil, &apperrors.StorageBackendError{Op: "query table stats", Err: err}
	}

	return &stats, nil
}

// StorageSizes returns the engine-reported relation sizes for table,
// pretty-printed by pg_size_pretty. ToastSize is empty when the table
// has no TOAST relation.
func (r *statsRepository) StorageSizes(ctx context.Context, table string) (*models.StorageSizes, error) {
	query := `
		SELECT
			pg_size_pretty(pg_total_relation_size(c.oid)),
			pg_size_pretty(pg_relation_size(c.oid)),
			pg_size_pretty(pg_indexes_size(c.oid)),
			CASE WHEN c.reltoastrelid = 0 THEN ''
			     ELSE pg_size_pretty(pg_total_relation_size(c.reltoastrelid))
			END
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relname = $1
		  AND c.relkind = 'r'
		  AND n.nspname = current_schema()`

	var sizes models.StorageSizes
	err := r.db.QueryRow(ctx, query, table).Scan(
		&sizes.TotalSize,
		&sizes.TableSize,
		&sizes.IndexSize,
		&sizes.ToastSize,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table %q: %w", table, apperrors.ErrNotFound)
		}
		return nil, &apperrors.StorageBackendError{Op: "query storage sizes", Err: err}
	}

	return &sizes, nil
}

// Analyze refreshes the engine's statistics for table. Callers invoke
// it explicitly before reading statistics; the read queries never
// trigger it implicitly.
func (r *statsRepository) Analyze(ctx context.Context, table string) error {
	stmt := "ANALYZE " + pgx.Identifier{table}.Sanitize()
	if _, err := r.db.Exec(ctx, stmt); err != nil {
		return &apperrors.StorageBackendError{Op: "analyze table", Err: err}
	}
	return nil
}
