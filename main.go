package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/heaplens/heaplens/pkg/config"
	"github.com/heaplens/heaplens/pkg/database"
	"github.com/heaplens/heaplens/pkg/models"
	"github.com/heaplens/heaplens/pkg/repositories"
	"github.com/heaplens/heaplens/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting heaplens",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)),
		zap.String("table", cfg.TargetTable),
	)

	ctx := context.Background()

	if err := database.RunMigrations(cfg.Database.URL(), cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	employees := repositories.NewEmployeeRepository(db, cfg.TargetTable)
	stats := repositories.NewStatsRepository(db)
	reports := services.NewReportService(stats, logger)

	rows := sampleEmployees()

	if err := employees.Truncate(ctx); err != nil {
		logger.Fatal("Failed to reset demo table", zap.Error(err))
	}
	for _, row := range rows {
		if err := employees.Insert(ctx, row); err != nil {
			logger.Fatal("Failed to seed demo row", zap.Error(err))
		}
	}

	// Refresh the engine's bookkeeping before reading it; the reads
	// themselves never trigger this.
	if err := stats.Analyze(ctx, cfg.TargetTable); err != nil {
		logger.Fatal("Failed to analyze table", zap.Error(err))
	}

	report, err := reports.BuildReport(ctx, cfg.TargetTable, rows)
	if err != nil {
		logger.Fatal("Failed to build report", zap.Error(err))
	}

	render(report, rows)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// sampleEmployees returns representative rows spanning every modeled
// value kind, including an all-null payload and an oversized document.
func sampleEmployees() []*models.Row {
	return []*models.Row{
		models.NewRow(
			models.Col("id", 1),
			models.Col("name", "Eva Chen"),
			models.Col("employee_id", 1004),
			models.Col("active", true),
			models.Col("hire_date", civil.Date{Year: 2021, Month: time.March, Day: 15}),
			models.Col("salary", decimal.RequireFromString("60000.00")),
			models.Col("details", map[string]any{"department": "HR"}),
			models.Col("photo", nil),
		),
		models.NewRow(
			models.Col("id", 2),
			models.Col("name", "Miguel Santos-Oliveira"),
			models.Col("employee_id", 1005),
			models.Col("active", false),
			models.Col("hire_date", civil.Date{Year: 2018, Month: time.November, Day: 2}),
			models.Col("salary", decimal.RequireFromString("84250.50")),
			models.Col("details", map[string]any{
				"department": "Engineering",
				"skills":     []any{"go", "postgres", "kubernetes"},
				"remote":     true,
			}),
			models.Col("photo", nil),
		),
		models.NewRow(
			models.Col("id", 3),
			models.Col("name", "Kim"),
			models.Col("employee_id", 1006),
			models.Col("active", true),
			models.Col("hire_date", nil),
			models.Col("salary", nil),
			models.Col("details", nil),
			models.Col("photo", nil),
		),
	}
}

func render(report *models.Report, rows []*models.Row) {
	fmt.Printf("\nTheoretical tuple sizes for %q\n", report.Table)
	fmt.Println("=============================================")

	for i, est := range report.Estimates {
		label := fmt.Sprintf("row %d", i+1)
		if name, ok := rows[i].Value("name"); ok && name != nil {
			label = fmt.Sprintf("%v", name)
		}
		fmt.Printf("\n%s: %d bytes (header %d + null bitmap %d + columns %d)\n",
			label, est.TotalBytes, est.HeaderSize, est.NullBitmapSize,
			est.TotalBytes-est.HeaderSize-est.NullBitmapSize)
		for _, col := range est.Columns {
			flags := ""
			if col.IsNull {
				flags = " (null)"
			} else if col.IsVariableLength {
				flags = " (varlen)"
			}
			fmt.Printf("  %-12s %4d bytes%s\n", col.Name, col.Bytes, flags)
		}
	}

	fmt.Println("\nEngine-reported statistics")
	fmt.Println("=============================================")
	fmt.Printf("live tuples: %d  dead tuples: %d\n", report.Stats.LiveTuples, report.Stats.DeadTuples)
	fmt.Printf("inserts: %d  updates: %d  deletes: %d\n", report.Stats.Inserts, report.Stats.Updates, report.Stats.Deletes)
	fmt.Printf("total size: %s  table: %s  indexes: %s", report.Sizes.TotalSize, report.Sizes.TableSize, report.Sizes.IndexSize)
	if report.Sizes.ToastSize != "" {
		fmt.Printf("  toast: %s", report.Sizes.ToastSize)
	}
	fmt.Println()
}
