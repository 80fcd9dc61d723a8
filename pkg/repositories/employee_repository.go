package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/heaplens/heaplens/pkg/apperrors"
	"github.com/heaplens/heaplens/pkg/database"
	"github.com/heaplens/heaplens/pkg/models"
)

// EmployeeRepository seeds and inspects the demo employees table so
// the estimator has real heap tuples to compare against.
type EmployeeRepository interface {
	Insert(ctx context.Context, row *models.Row) error
	Count(ctx context.Context) (int64, error)
	Truncate(ctx context.Context) error
}

// employeeRepository implements EmployeeRepository using PostgreSQL.
type employeeRepository struct {
	db    *database.DB
	table string
}

// NewEmployeeRepository creates a new employee repository writing to
// the named table.
func NewEmployeeRepository(db *database.DB, table string) EmployeeRepository {
	return &employeeRepository{db: db, table: table}
}

// Insert stores one row, skipping the primary-key column so the
// engine assigns it from the sequence.
func (r *employeeRepository) Insert(ctx context.Context, row *models.Row) error {
	if row == nil || len(row.Columns) == 0 {
		return apperrors.ErrInvalidRow
	}

	names := make([]string, 0, len(row.Columns))
	placeholders := make([]string, 0, len(row.Columns))
	args := make([]any, 0, len(row.Columns))
	for _, col := range row.Columns {
		if col.Name == row.PrimaryKey {
			continue
		}
		value, err := encodeValue(col.Value)
		if err != nil {
			return fmt.Errorf("failed to encode column %q: %w", col.Name, err)
		}
		names = append(names, pgx.Identifier{col.Name}.Sanitize())
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, value)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{r.table}.Sanitize(),
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "))

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return &apperrors.StorageBackendError{Op: "insert row", Err: err}
	}

	return nil
}

// Count returns the number of rows currently in the table.
func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pgx.Identifier{r.table}.Sanitize())

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, &apperrors.StorageBackendError{Op: "count rows", Err: err}
	}
	return count, nil
}

// Truncate empties the table so repeated demo runs stay comparable.
func (r *employeeRepository) Truncate(ctx context.Context) error {
	query := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", pgx.Identifier{r.table}.Sanitize())
	if _, err := r.db.Exec(ctx, query); err != nil {
		return &apperrors.StorageBackendError{Op: "truncate table", Err: err}
	}
	return nil
}

// encodeValue converts estimator value kinds into types pgx can bind:
// civil dates become midnight UTC timestamps, decimals go over the
// wire as text, documents are marshaled to JSON bytes.
func encodeValue(v any) (any, error) {
	switch val := v.(type) {
	case civil.Date:
		return time.Date(val.Year, val.Month, val.Day, 0, 0, 0, 0, time.UTC), nil
	case decimal.Decimal:
		return val.String(), nil
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return v, nil
	}
}
