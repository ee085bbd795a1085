// Package models defines the persisted entities of the analytics service.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportSnapshot is a stored copy of a successfully fetched report,
// letting the dashboard chart historical trends without re-querying the
// upstream property.
type ReportSnapshot struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReportType string         `gorm:"type:varchar(50);index;not null" json:"report_type"`
	StartDate  string         `gorm:"type:varchar(20)" json:"start_date"`
	EndDate    string         `gorm:"type:varchar(20)" json:"end_date"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// TableName overrides the default table name.
func (ReportSnapshot) TableName() string {
	return "report_snapshots"
}

// BeforeCreate assigns the snapshot ID.
func (s *ReportSnapshot) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
