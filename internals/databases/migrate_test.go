package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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
	return gdb, mock
}

func TestEnsureAttendanceIndexes_AppliesAllPartialIndexes(t *testing.T) {
	gdb, mock := newMockDB(t)

	for _, name := range []string{
		"uq_attendance_member_gathering_date",
		"uq_attendance_member_nogathering_date",
		"uq_attendance_visitor_gathering_date",
		"uq_attendance_visitor_nogathering_date",
		"uq_members_biometric_token",
		"uq_gatherings_external_url_token",
	} {
		mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS " + name).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	EnsureAttendanceIndexes(gdb)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAttendanceIndexes_FailureDoesNotAbortRemaining(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectExec("uq_attendance_member_gathering_date").
		WillReturnError(assert.AnError)
	for _, name := range []string{
		"uq_attendance_member_nogathering_date",
		"uq_attendance_visitor_gathering_date",
		"uq_attendance_visitor_nogathering_date",
		"uq_members_biometric_token",
		"uq_gatherings_external_url_token",
	} {
		mock.ExpectExec(name).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	EnsureAttendanceIndexes(gdb)
	assert.NoError(t, mock.ExpectationsWereMet())
}
