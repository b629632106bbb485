// internals/features/members/visitor/dto/visitor_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	memberModel "gerejaku_backend/internals/features/members/member/model"
	"gerejaku_backend/internals/features/members/visitor/model"
)

type CreateVisitorRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=80"`
	LastName     string  `json:"last_name" validate:"max=80"`
	Gender       string  `json:"gender" validate:"required,oneof=male female"`
	AgeGroup     string  `json:"age_group" validate:"required,oneof=child adolescent adult"`
	Phone        *string `json:"phone" validate:"omitempty,min=8,max=30"`
	Email        *string `json:"email" validate:"omitempty,email"`
	HowHeard     *string `json:"how_heard" validate:"omitempty,max=255"`
	PrayerPoints *string `json:"prayer_points" validate:"omitempty,max=2000"`
}

func (r CreateVisitorRequest) ToModel(tenantID uuid.UUID) model.VisitorModel {
	return model.VisitorModel{
		VisitorTenantID:       tenantID,
		VisitorFirstName:      r.FirstName,
		VisitorLastName:       r.LastName,
		VisitorGender:         memberModel.Gender(r.Gender),
		VisitorAgeGroup:       memberModel.AgeGroup(r.AgeGroup),
		VisitorPhone:          r.Phone,
		VisitorEmail:          r.Email,
		VisitorHowHeard:       r.HowHeard,
		VisitorPrayerPoints:   r.PrayerPoints,
		VisitorFollowUpStatus: model.VisitorFollowUpPending,
	}
}

type UpdateVisitorRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName       *string `json:"last_name" validate:"omitempty,max=80"`
	Phone          *string `json:"phone" validate:"omitempty,min=8,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	HowHeard       *string `json:"how_heard" validate:"omitempty,max=255"`
	PrayerPoints   *string `json:"prayer_points" validate:"omitempty,max=2000"`
	FollowUpStatus *string `json:"follow_up_status" validate:"omitempty,oneof=pending contacted member"`
}

// Data pengunjung dibawa apa adanya saat promosi; telepon bisa diisi di sini
// kalau pengunjung dewasa belum punya nomor tercatat.
type PromoteVisitorRequest struct {
	Phone *string `json:"phone" validate:"omitempty,min=8,max=30"`
}

type VisitorResponse struct {
	VisitorID      string     `json:"visitor_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name,omitempty"`
	Gender         string     `json:"gender"`
	AgeGroup       string     `json:"age_group"`
	Phone          *string    `json:"phone,omitempty"`
	Email          *string    `json:"email,omitempty"`
	HowHeard       *string    `json:"how_heard,omitempty"`
	PrayerPoints   *string    `json:"prayer_points,omitempty"`
	FollowUpStatus string     `json:"follow_up_status"`
	MemberID       *uuid.UUID `json:"member_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func FromVisitorModel(v model.VisitorModel) VisitorResponse {
	return VisitorResponse{
		VisitorID:      v.VisitorID.String(),
		FirstName:      v.VisitorFirstName,
		LastName:       v.VisitorLastName,
		Gender:         string(v.VisitorGender),
		AgeGroup:       string(v.VisitorAgeGroup),
		Phone:          v.VisitorPhone,
		Email:          v.VisitorEmail,
		HowHeard:       v.VisitorHowHeard,
		PrayerPoints:   v.VisitorPrayerPoints,
		FollowUpStatus: string(v.VisitorFollowUpStatus),
		MemberID:       v.VisitorMemberID,
		CreatedAt:      v.VisitorCreatedAt,
	}
}

func ToVisitorResponseList(vs []model.VisitorModel) []VisitorResponse {
	out := make([]VisitorResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromVisitorModel(v))
	}
	return out
}
