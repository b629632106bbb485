// internals/features/members/member/model/member_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type AgeGroup string

const (
	AgeGroupChild      AgeGroup = "child"
	AgeGroupAdolescent AgeGroup = "adolescent"
	AgeGroupAdult      AgeGroup = "adult"
)

// RelationshipToHead: relasi member terhadap kepala keluarga.
type RelationshipToHead string

const (
	RelationshipHead    RelationshipToHead = "head"
	RelationshipSpouse  RelationshipToHead = "spouse"
	RelationshipChild   RelationshipToHead = "child"
	RelationshipParent  RelationshipToHead = "parent"
	RelationshipSibling RelationshipToHead = "sibling"
	RelationshipOther   RelationshipToHead = "other"
)

func (r RelationshipToHead) Valid() bool {
	switch r {
	case RelationshipHead, RelationshipSpouse, RelationshipChild,
		RelationshipParent, RelationshipSibling, RelationshipOther:
		return true
	}
	return false
}

type MemberModel struct {
	// PK
	MemberID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:member_id" json:"member_id"`

	// FK tenant (member milik tepat satu tenant)
	MemberTenantID uuid.UUID `gorm:"type:uuid;not null;column:member_tenant_id;index:idx_members_tenant" json:"member_tenant_id"`

	MemberFirstName string `gorm:"type:varchar(80);not null;column:member_first_name" json:"member_first_name"`
	MemberLastName  string `gorm:"type:varchar(80);column:member_last_name" json:"member_last_name"`

	MemberGender   Gender   `gorm:"type:varchar(10);not null;column:member_gender" json:"member_gender"`
	MemberAgeGroup AgeGroup `gorm:"type:varchar(16);not null;column:member_age_group;index:idx_members_age_group" json:"member_age_group"`

	// Phone wajib untuk adult (divalidasi di DTO/service)
	MemberPhone *string `gorm:"type:varchar(30);column:member_phone" json:"member_phone,omitempty"`
	MemberEmail *string `gorm:"type:varchar(120);column:member_email" json:"member_email,omitempty"`

	// Kredensial biometrik (opaque token; unik per tenant via partial index)
	MemberBiometricToken *string `gorm:"type:varchar(255);column:member_biometric_token" json:"-"`

	// Family group: id kepala keluarga. Invariant: kalau member ini head,
	// family_group_id == member_id sendiri.
	MemberFamilyGroupID *uuid.UUID         `gorm:"type:uuid;column:member_family_group_id;index:idx_members_family_group" json:"member_family_group_id,omitempty"`
	MemberRelationship  RelationshipToHead `gorm:"type:varchar(16);not null;default:other;column:member_relationship" json:"member_relationship"`
	MemberIsFamilyHead  bool               `gorm:"not null;default:false;column:member_is_family_head" json:"member_is_family_head"`

	// Soft-retire: member lama di-flip, tidak pernah dihapus fisik
	// (kecuali factory reset tenant).
	MemberIsCurrent bool `gorm:"not null;default:true;column:member_is_current;index:idx_members_is_current" json:"member_is_current"`

	// Timestamps
	MemberCreatedAt time.Time      `gorm:"column:member_created_at;autoCreateTime" json:"member_created_at"`
	MemberUpdatedAt time.Time      `gorm:"column:member_updated_at;autoUpdateTime" json:"member_updated_at"`
	MemberDeletedAt gorm.DeletedAt `gorm:"column:member_deleted_at;index" json:"member_deleted_at,omitempty"`
}

func (MemberModel) TableName() string {
	return "members"
}

func (m *MemberModel) DisplayName() string {
	if m.MemberLastName == "" {
		return m.MemberFirstName
	}
	return m.MemberFirstName + " " + m.MemberLastName
}
