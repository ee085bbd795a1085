package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/niaga-platform/service-analytics/internal/models"
	"github.com/niaga-platform/service-analytics/internal/repository"
)

// Snapshot report types.
const (
	SnapshotDashboard  = "dashboard"
	SnapshotEngagement = "engagement"
)

// SnapshotService records successfully fetched reports for trend history.
type SnapshotService struct {
	repo   *repository.SnapshotRepository
	logger *zap.Logger
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(repo *repository.SnapshotRepository, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		repo:   repo,
		logger: logger,
	}
}

// Record stores a report payload as a snapshot. Best effort: failures are
// logged, never propagated to the dashboard response path.
func (s *SnapshotService) Record(ctx context.Context, reportType, startDate, endDate string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to marshal snapshot payload", zap.Error(err), zap.String("report_type", reportType))
		return
	}

	snapshot := &models.ReportSnapshot{
		ReportType: reportType,
		StartDate:  startDate,
		EndDate:    endDate,
		Payload:    data,
	}
	if err := s.repo.Create(ctx, snapshot); err != nil {
		s.logger.Warn("failed to record snapshot", zap.Error(err), zap.String("report_type", reportType))
		return
	}

	s.logger.Debug("recorded snapshot",
		zap.String("report_type", reportType),
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
	)
}

// List returns recent snapshots of a report type, newest first.
func (s *SnapshotService) List(ctx context.Context, reportType string, limit int) ([]models.ReportSnapshot, error) {
	snapshots, err := s.repo.ListByType(ctx, reportType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// Prune removes snapshots older than the retention window.
func (s *SnapshotService) Prune(ctx context.Context, retention time.Duration) {
	removed, err := s.repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		s.logger.Warn("failed to prune snapshots", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("pruned old snapshots", zap.Int64("removed", removed))
	}
}
