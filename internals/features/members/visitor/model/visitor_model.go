// internals/features/members/visitor/model/visitor_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	memberModel "gerejaku_backend/internals/features/members/member/model"
)

type VisitorFollowUpStatus string

const (
	VisitorFollowUpPending   VisitorFollowUpStatus = "pending"
	VisitorFollowUpContacted VisitorFollowUpStatus = "contacted"
	VisitorFollowUpMember    VisitorFollowUpStatus = "member"
)

type VisitorModel struct {
	// PK
	VisitorID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:visitor_id" json:"visitor_id"`

	// FK tenant
	VisitorTenantID uuid.UUID `gorm:"type:uuid;not null;column:visitor_tenant_id;index:idx_visitors_tenant" json:"visitor_tenant_id"`

	VisitorFirstName string                `gorm:"type:varchar(80);not null;column:visitor_first_name" json:"visitor_first_name"`
	VisitorLastName  string                `gorm:"type:varchar(80);column:visitor_last_name" json:"visitor_last_name"`
	VisitorGender    memberModel.Gender    `gorm:"type:varchar(10);not null;column:visitor_gender" json:"visitor_gender"`
	VisitorAgeGroup  memberModel.AgeGroup  `gorm:"type:varchar(16);not null;column:visitor_age_group" json:"visitor_age_group"`

	VisitorPhone *string `gorm:"type:varchar(30);column:visitor_phone" json:"visitor_phone,omitempty"`
	VisitorEmail *string `gorm:"type:varchar(120);column:visitor_email" json:"visitor_email,omitempty"`

	// Intake bebas saat kontak pertama
	VisitorHowHeard     *string `gorm:"type:text;column:visitor_how_heard" json:"visitor_how_heard,omitempty"`
	VisitorPrayerPoints *string `gorm:"type:text;column:visitor_prayer_points" json:"visitor_prayer_points,omitempty"`

	VisitorFollowUpStatus VisitorFollowUpStatus `gorm:"type:varchar(16);not null;default:pending;column:visitor_follow_up_status;index:idx_visitors_follow_up_status" json:"visitor_follow_up_status"`

	// Link 1:1 ke member setelah dipromosikan
	VisitorMemberID *uuid.UUID `gorm:"type:uuid;column:visitor_member_id" json:"visitor_member_id,omitempty"`

	// Timestamps
	VisitorCreatedAt time.Time      `gorm:"column:visitor_created_at;autoCreateTime" json:"visitor_created_at"`
	VisitorUpdatedAt time.Time      `gorm:"column:visitor_updated_at;autoUpdateTime" json:"visitor_updated_at"`
	VisitorDeletedAt gorm.DeletedAt `gorm:"column:visitor_deleted_at;index" json:"visitor_deleted_at,omitempty"`
}

func (VisitorModel) TableName() string {
	return "visitors"
}

func (v *VisitorModel) DisplayName() string {
	if v.VisitorLastName == "" {
		return v.VisitorFirstName
	}
	return v.VisitorFirstName + " " + v.VisitorLastName
}
