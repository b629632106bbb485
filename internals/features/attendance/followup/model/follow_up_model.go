// internals/features/attendance/followup/model/follow_up_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type ContactMethod string

const (
	ContactSMS   ContactMethod = "sms"
	ContactEmail ContactMethod = "email"
	ContactCall  ContactMethod = "call"
)

func (m ContactMethod) Valid() bool {
	switch m {
	case ContactSMS, ContactEmail, ContactCall:
		return true
	}
	return false
}

// FollowUpModel: state turunan per member. Satu baris per member,
// dibuat lazy saat scan/side-effect pertama.
type FollowUpModel struct {
	// PK
	FollowUpID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:follow_up_id" json:"follow_up_id"`

	FollowUpTenantID uuid.UUID `gorm:"type:uuid;not null;column:follow_up_tenant_id;index:idx_follow_ups_tenant" json:"follow_up_tenant_id"`
	FollowUpMemberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_follow_ups_member;column:follow_up_member_id" json:"follow_up_member_id"`

	FollowUpConsecutiveAbsences int  `gorm:"not null;default:0;column:follow_up_consecutive_absences" json:"follow_up_consecutive_absences"`
	FollowUpNeedsFollowUp       bool `gorm:"not null;default:false;column:follow_up_needs_follow_up;index:idx_follow_ups_needs" json:"follow_up_needs_follow_up"`

	FollowUpLastContactAt     *time.Time     `gorm:"column:follow_up_last_contact_at" json:"follow_up_last_contact_at,omitempty"`
	FollowUpLastContactMethod *ContactMethod `gorm:"type:varchar(10);column:follow_up_last_contact_method" json:"follow_up_last_contact_method,omitempty"`

	// Kapan terakhir absence-scan menyentuh baris ini
	FollowUpLastScannedAt *time.Time `gorm:"column:follow_up_last_scanned_at" json:"follow_up_last_scanned_at,omitempty"`

	FollowUpCreatedAt time.Time `gorm:"column:follow_up_created_at;autoCreateTime" json:"follow_up_created_at"`
	FollowUpUpdatedAt time.Time `gorm:"column:follow_up_updated_at;autoUpdateTime" json:"follow_up_updated_at"`
}

func (FollowUpModel) TableName() string {
	return "follow_up_records"
}
