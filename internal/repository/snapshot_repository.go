// Package repository provides data access for persisted report snapshots.
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/niaga-platform/service-analytics/internal/models"
)

// SnapshotRepository persists and queries report snapshots.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create stores a new snapshot.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *models.ReportSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// ListByType returns the most recent snapshots of a report type,
// newest first.
func (r *SnapshotRepository) ListByType(ctx context.Context, reportType string, limit int) ([]models.ReportSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	var snapshots []models.ReportSnapshot
	err := r.db.WithContext(ctx).
		Where("report_type = ?", reportType).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	return snapshots, err
}

// DeleteOlderThan removes snapshots created before the cutoff, returning
// the number of rows removed.
func (r *SnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ReportSnapshot{})
	return result.RowsAffected, result.Error
}
