package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepository(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return NewSnapshotRepository(db), mock
}

func TestDeleteOlderThan(t *testing.T) {
	repo, mock := newMockRepository(t)

	cutoff := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "report_snapshots" WHERE created_at < $1`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	removed, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTypeClampsLimit(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "report_type", "start_date", "end_date", "payload", "created_at"}).
		AddRow(uuid.New().String(), "dashboard", "2026-01-01", "2026-01-31", []byte(`{}`), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "report_snapshots" WHERE report_type = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("dashboard", 30).
		WillReturnRows(rows)

	// A non-positive limit falls back to the default of 30.
	snapshots, err := repo.ListByType(context.Background(), "dashboard", 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "dashboard", snapshots[0].ReportType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTypeCapsLimit(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "report_snapshots" WHERE report_type = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("engagement", 30).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Limits above 100 also fall back to the default.
	_, err := repo.ListByType(context.Background(), "engagement", 500)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
