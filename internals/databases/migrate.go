package database

import (
	"log"

	"gorm.io/gorm"

	checkinModel "gerejaku_backend/internals/features/attendance/checkin/model"
	followupModel "gerejaku_backend/internals/features/attendance/followup/model"
	gatheringModel "gerejaku_backend/internals/features/gatherings/gathering/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/members/visitor/model"
	billingModel "gerejaku_backend/internals/features/tenants/billing/model"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
	userModel "gerejaku_backend/internals/features/users/auth/model"
)

// AutoMigrate menyiapkan skema semua tabel lalu index partialnya.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&tenantModel.TenantModel{},
		&userModel.UserModel{},
		&memberModel.MemberModel{},
		&visitorModel.VisitorModel{},
		&gatheringModel.GatheringModel{},
		&checkinModel.AttendanceRecordModel{},
		&followupModel.FollowUpModel{},
		&billingModel.SubscriptionPaymentModel{},
	); err != nil {
		return err
	}
	EnsureAttendanceIndexes(db)
	return nil
}

// EnsureAttendanceIndexes memasang unique index parsial untuk
// attendance_records. Ini backstop otoritatif aturan
// "satu record per (tenant, gathering-atau-none, orang, tanggal)":
// duplicate check in-process boleh balapan, index ini tidak.
func EnsureAttendanceIndexes(db *gorm.DB) {
	stmts := []string{
		// member + gathering
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_member_gathering_date
		   ON attendance_records (attendance_tenant_id, attendance_gathering_id, attendance_member_id, attendance_date)
		 WHERE attendance_member_id IS NOT NULL AND attendance_gathering_id IS NOT NULL`,
		// member tanpa gathering (check-in ad-hoc)
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_member_nogathering_date
		   ON attendance_records (attendance_tenant_id, attendance_member_id, attendance_date)
		 WHERE attendance_member_id IS NOT NULL AND attendance_gathering_id IS NULL`,
		// visitor + gathering
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_visitor_gathering_date
		   ON attendance_records (attendance_tenant_id, attendance_gathering_id, attendance_visitor_id, attendance_date)
		 WHERE attendance_visitor_id IS NOT NULL AND attendance_gathering_id IS NOT NULL`,
		// visitor tanpa gathering
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_visitor_nogathering_date
		   ON attendance_records (attendance_tenant_id, attendance_visitor_id, attendance_date)
		 WHERE attendance_visitor_id IS NOT NULL AND attendance_gathering_id IS NULL`,
		// satu biometric token per member per tenant (reverse uniqueness)
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_members_biometric_token
		   ON members (member_tenant_id, member_biometric_token)
		 WHERE member_biometric_token IS NOT NULL AND member_deleted_at IS NULL`,
		// satu URL token external check-in aktif secara global
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_gatherings_external_url_token
		   ON gatherings (gathering_external_url_token)
		 WHERE gathering_external_url_token IS NOT NULL`,
	}

	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			log.Printf("[MIGRATE] index err: %v", err)
		}
	}
}
