// internals/features/attendance/followup/dto/followup_dto.go
package dto

import (
	"time"

	"gerejaku_backend/internals/features/attendance/followup/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
)

type RecordContactRequest struct {
	Method  string `json:"method" validate:"required,oneof=sms email call"`
	Message string `json:"message" validate:"omitempty,max=2000"`
}

type FollowUpEntryResponse struct {
	MemberID            string     `json:"member_id"`
	MemberName          string     `json:"member_name"`
	Phone               *string    `json:"phone,omitempty"`
	Email               *string    `json:"email,omitempty"`
	ConsecutiveAbsences int        `json:"consecutive_absences"`
	NeedsFollowUp       bool       `json:"needs_follow_up"`
	LastContactAt       *time.Time `json:"last_contact_at,omitempty"`
	LastContactMethod   *string    `json:"last_contact_method,omitempty"`
}

func BuildFollowUpEntry(fu model.FollowUpModel, m memberModel.MemberModel) FollowUpEntryResponse {
	var method *string
	if fu.FollowUpLastContactMethod != nil {
		s := string(*fu.FollowUpLastContactMethod)
		method = &s
	}
	return FollowUpEntryResponse{
		MemberID:            fu.FollowUpMemberID.String(),
		MemberName:          m.DisplayName(),
		Phone:               m.MemberPhone,
		Email:               m.MemberEmail,
		ConsecutiveAbsences: fu.FollowUpConsecutiveAbsences,
		NeedsFollowUp:       fu.FollowUpNeedsFollowUp,
		LastContactAt:       fu.FollowUpLastContactAt,
		LastContactMethod:   method,
	}
}
