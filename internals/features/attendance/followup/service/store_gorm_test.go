package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormFollowUpStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormFollowUpStore(gdb), mock
}

func TestLastAttendanceAt_ReturnsCheckedInTimestamp(t *testing.T) {
	store, mock := newMockStore(t)
	tenantID, memberID := uuid.New(), uuid.New()

	checkedInAt := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	date := time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY attendance_checked_in_at DESC`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"attendance_id", "attendance_tenant_id", "attendance_member_id", "attendance_date", "attendance_checked_in_at"}).
			AddRow(uuid.New(), tenantID, memberID, date, checkedInAt))

	got, err := store.LastAttendanceAt(context.Background(), tenantID, memberID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(checkedInAt), "harus timestamp check-in, bukan tengah malam attendance_date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastAttendanceAt_NoAttendanceYet(t *testing.T) {
	store, mock := newMockStore(t)
	tenantID, memberID := uuid.New(), uuid.New()

	mock.ExpectQuery(`ORDER BY attendance_checked_in_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"attendance_id"}))

	got, err := store.LastAttendanceAt(context.Background(), tenantID, memberID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
