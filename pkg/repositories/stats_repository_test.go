//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heaplens/heaplens/pkg/apperrors"
	"github.com/heaplens/heaplens/pkg/models"
	"github.com/heaplens/heaplens/pkg/testhelpers"
)

// statsTestContext holds dependencies for stats repository integration tests.
type statsTestContext struct {
	t         *testing.T
	stats     StatsRepository
	employees EmployeeRepository
}

func setupStatsTest(t *testing.T) *statsTestContext {
	t.Helper()

	testDB := testhelpers.GetTestDB(t)

	tc := &statsTestContext{
		t:         t,
		stats:     NewStatsRepository(testDB.DB),
		employees: NewEmployeeRepository(testDB.DB, "employees"),
	}

	if err := tc.employees.Truncate(context.Background()); err != nil {
		t.Fatalf("Failed to truncate employees: %v", err)
	}

	return tc
}

func (tc *statsTestContext) seedEmployees(ctx context.Context, n int) {
	tc.t.Helper()

	for i := 0; i < n; i++ {
		row := models.NewRow(
			models.Col("id", i+1),
			models.Col("name", "Employee Name"),
			models.Col("employee_id", 1000+i),
			models.Col("active", i%2 == 0),
			models.Col("hire_date", civil.Date{Year: 2020, Month: time.June, Day: 1}),
			models.Col("salary", decimal.RequireFromString("55000.00")),
			models.Col("details", map[string]any{"department": "Engineering"}),
			models.Col("photo", nil),
		)
		if err := tc.employees.Insert(ctx, row); err != nil {
			tc.t.Fatalf("Failed to insert employee %d: %v", i, err)
		}
	}
}

func TestTableStats_AfterSeedAndAnalyze(t *testing.T) {
	tc := setupStatsTest(t)
	ctx := context.Background()

	tc.seedEmployees(ctx, 5)

	require.NoError(t, tc.stats.Analyze(ctx, "employees"))

	stats, err := tc.stats.TableStats(ctx, "employees")
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.LiveTuples)
	assert.GreaterOrEqual(t, stats.Inserts, int64(5))
}

func TestTableStats_UnknownTable(t *testing.T) {
	tc := setupStatsTest(t)

	_, err := tc.stats.TableStats(context.Background(), "no_such_table")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTableStats_ScopedToCurrentSchema(t *testing.T) {
	tc := setupStatsTest(t)
	ctx := context.Background()

	// A same-named table in another schema must not shadow (or be
	// mixed into) the current schema's statistics.
	testDB := testhelpers.GetTestDB(t)
	setup := []string{
		`DROP SCHEMA IF EXISTS archive CASCADE`,
		`CREATE SCHEMA archive`,
		`CREATE TABLE archive.employees (id SERIAL PRIMARY KEY, name TEXT)`,
		`INSERT INTO archive.employees (name) VALUES ('a'), ('b'), ('c')`,
		`ANALYZE archive.employees`,
	}
	for _, stmt := range setup {
		_, err := testDB.DB.Exec(ctx, stmt)
		require.NoError(t, err)
	}

	tc.seedEmployees(ctx, 1)
	require.NoError(t, tc.stats.Analyze(ctx, "employees"))

	stats, err := tc.stats.TableStats(ctx, "employees")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.LiveTuples)
}

func TestStorageSizes(t *testing.T) {
	tc := setupStatsTest(t)
	ctx := context.Background()

	tc.seedEmployees(ctx, 3)
	require.NoError(t, tc.stats.Analyze(ctx, "employees"))

	sizes, err := tc.stats.StorageSizes(ctx, "employees")
	require.NoError(t, err)

	assert.NotEmpty(t, sizes.TotalSize)
	assert.NotEmpty(t, sizes.TableSize)
	assert.NotEmpty(t, sizes.IndexSize)
	// employees has text and jsonb columns, so a TOAST relation exists
	// even when nothing has been offloaded yet.
	assert.NotEmpty(t, sizes.ToastSize)
}

func TestStorageSizes_UnknownTable(t *testing.T) {
	tc := setupStatsTest(t)

	_, err := tc.stats.StorageSizes(context.Background(), "no_such_table")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEmployeeRepository_InsertAndCount(t *testing.T) {
	tc := setupStatsTest(t)
	ctx := context.Background()

	tc.seedEmployees(ctx, 2)

	count, err := tc.employees.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
