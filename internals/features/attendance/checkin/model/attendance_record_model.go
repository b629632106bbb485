// internals/features/attendance/checkin/model/attendance_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"

	memberModel "gerejaku_backend/internals/features/members/member/model"
)

// CheckInMethod: enumerasi tertutup cara check-in.
type CheckInMethod string

const (
	MethodFingerprint CheckInMethod = "fingerprint"
	MethodManual      CheckInMethod = "manual"
	MethodFamily      CheckInMethod = "family"
	MethodVisitor     CheckInMethod = "visitor"
	MethodExternal    CheckInMethod = "external"
)

func (m CheckInMethod) Valid() bool {
	switch m {
	case MethodFingerprint, MethodManual, MethodFamily, MethodVisitor, MethodExternal:
		return true
	}
	return false
}

// AttendanceRecordModel: fakta "orang ini hadir di gathering ini pada
// tanggal ini". Immutable setelah dibuat; koreksi = hard delete oleh staff.
// Uniqueness per (tenant, gathering-atau-none, orang, tanggal) dijaga
// oleh partial unique index (lihat internals/databases/migrate.go).
type AttendanceRecordModel struct {
	// PK
	AttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_id" json:"attendance_id"`

	AttendanceTenantID uuid.UUID `gorm:"type:uuid;not null;column:attendance_tenant_id;index:idx_attendance_tenant" json:"attendance_tenant_id"`

	// Nullable: check-in ad-hoc tanpa gathering
	AttendanceGatheringID *uuid.UUID `gorm:"type:uuid;column:attendance_gathering_id;index:idx_attendance_gathering" json:"attendance_gathering_id,omitempty"`

	// Tepat satu dari dua ini terisi
	AttendanceMemberID  *uuid.UUID `gorm:"type:uuid;column:attendance_member_id;index:idx_attendance_member" json:"attendance_member_id,omitempty"`
	AttendanceVisitorID *uuid.UUID `gorm:"type:uuid;column:attendance_visitor_id;index:idx_attendance_visitor" json:"attendance_visitor_id,omitempty"`

	// Hari kalender (bukan timestamp); kolom date di DB
	AttendanceDate time.Time `gorm:"type:date;not null;column:attendance_date;index:idx_attendance_date" json:"attendance_date"`

	AttendanceMethod      CheckInMethod `gorm:"type:varchar(16);not null;column:attendance_method" json:"attendance_method"`
	AttendanceCheckedInAt time.Time     `gorm:"not null;column:attendance_checked_in_at" json:"attendance_checked_in_at"`
	AttendanceIsGuest     bool          `gorm:"not null;default:false;column:attendance_is_guest" json:"attendance_is_guest"`

	// Denormalisasi identitas supaya tampilan riwayat tahan terhadap
	// edit data orang di kemudian hari
	AttendancePersonName     string               `gorm:"type:varchar(160);not null;column:attendance_person_name" json:"attendance_person_name"`
	AttendancePersonGender   memberModel.Gender   `gorm:"type:varchar(10);column:attendance_person_gender" json:"attendance_person_gender"`
	AttendancePersonAgeGroup memberModel.AgeGroup `gorm:"type:varchar(16);column:attendance_person_age_group" json:"attendance_person_age_group"`

	AttendanceCreatedAt time.Time `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}
