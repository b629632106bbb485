// internals/features/members/member/dto/member_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"gerejaku_backend/internals/features/members/member/model"
)

type CreateMemberRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"max=80"`
	Gender    string `json:"gender" validate:"required,oneof=male female"`
	AgeGroup  string `json:"age_group" validate:"required,oneof=child adolescent adult"`

	// Wajib untuk age_group=adult (dicek di controller, bukan tag)
	Phone *string `json:"phone" validate:"omitempty,min=8,max=30"`
	Email *string `json:"email" validate:"omitempty,email"`

	// Family linkage: kosong = bukan anggota keluarga manapun
	FamilyGroupID *uuid.UUID `json:"family_group_id"`
	Relationship  string     `json:"relationship" validate:"omitempty,oneof=head spouse child parent sibling other"`
	IsFamilyHead  bool       `json:"is_family_head"`
}

func (r CreateMemberRequest) ToModel(tenantID uuid.UUID) model.MemberModel {
	rel := model.RelationshipToHead(r.Relationship)
	if rel == "" {
		rel = model.RelationshipOther
	}
	return model.MemberModel{
		MemberTenantID:      tenantID,
		MemberFirstName:     r.FirstName,
		MemberLastName:      r.LastName,
		MemberGender:        model.Gender(r.Gender),
		MemberAgeGroup:      model.AgeGroup(r.AgeGroup),
		MemberPhone:         r.Phone,
		MemberEmail:         r.Email,
		MemberFamilyGroupID: r.FamilyGroupID,
		MemberRelationship:  rel,
		MemberIsFamilyHead:  r.IsFamilyHead,
		MemberIsCurrent:     true,
	}
}

type UpdateMemberRequest struct {
	FirstName     *string    `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName      *string    `json:"last_name" validate:"omitempty,max=80"`
	Gender        *string    `json:"gender" validate:"omitempty,oneof=male female"`
	AgeGroup      *string    `json:"age_group" validate:"omitempty,oneof=child adolescent adult"`
	Phone         *string    `json:"phone" validate:"omitempty,min=8,max=30"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	FamilyGroupID *uuid.UUID `json:"family_group_id"`
	Relationship  *string    `json:"relationship" validate:"omitempty,oneof=head spouse child parent sibling other"`
	IsCurrent     *bool      `json:"is_current"`
}

type EnrollBiometricRequest struct {
	BiometricToken string `json:"biometric_token" validate:"required,min=8,max=255"`
}

type MemberResponse struct {
	MemberID      string     `json:"member_id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name,omitempty"`
	Gender        string     `json:"gender"`
	AgeGroup      string     `json:"age_group"`
	Phone         *string    `json:"phone,omitempty"`
	Email         *string    `json:"email,omitempty"`
	FamilyGroupID *uuid.UUID `json:"family_group_id,omitempty"`
	Relationship  string     `json:"relationship"`
	IsFamilyHead  bool       `json:"is_family_head"`
	IsCurrent     bool       `json:"is_current"`
	HasBiometric  bool       `json:"has_biometric"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromMemberModel(m model.MemberModel) MemberResponse {
	return MemberResponse{
		MemberID:      m.MemberID.String(),
		FirstName:     m.MemberFirstName,
		LastName:      m.MemberLastName,
		Gender:        string(m.MemberGender),
		AgeGroup:      string(m.MemberAgeGroup),
		Phone:         m.MemberPhone,
		Email:         m.MemberEmail,
		FamilyGroupID: m.MemberFamilyGroupID,
		Relationship:  string(m.MemberRelationship),
		IsFamilyHead:  m.MemberIsFamilyHead,
		IsCurrent:     m.MemberIsCurrent,
		HasBiometric:  m.MemberBiometricToken != nil,
		CreatedAt:     m.MemberCreatedAt,
	}
}

func ToMemberResponseList(ms []model.MemberModel) []MemberResponse {
	out := make([]MemberResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMemberModel(m))
	}
	return out
}
