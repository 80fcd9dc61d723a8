package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/heaplens/heaplens/pkg/estimator"
	"github.com/heaplens/heaplens/pkg/models"
	"github.com/heaplens/heaplens/pkg/repositories"
)

// ReportService assembles theoretical tuple-size estimates and
// engine-reported storage statistics into a single report.
type ReportService struct {
	stats  repositories.StatsRepository
	logger *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(stats repositories.StatsRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{stats: stats, logger: logger}
}

// BuildReport estimates every row, then reads the table's statistics
// and sizes. Any failure aborts the report; no partial or zero-filled
// report is returned.
func (s *ReportService) BuildReport(ctx context.Context, table string, rows []*models.Row) (*models.Report, error) {
	estimates := make([]*models.TupleEstimate, 0, len(rows))
	for i, row := range rows {
		est, err := estimator.Estimate(row)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate row %d: %w", i, err)
		}
		estimates = append(estimates, est)
	}

	stats, err := s.stats.TableStats(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table stats: %w", err)
	}

	sizes, err := s.stats.StorageSizes(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage sizes: %w", err)
	}

	s.logger.Info("Built storage report",
		zap.String("table", table),
		zap.Int("rows_estimated", len(estimates)),
		zap.Int64("live_tuples", stats.LiveTuples),
		zap.Int64("dead_tuples", stats.DeadTuples),
	)

	return &models.Report{
		Table:     table,
		Estimates: estimates,
		Stats:     stats,
		Sizes:     sizes,
	}, nil
}
