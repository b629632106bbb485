// internals/features/attendance/checkin/dto/checkin_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"gerejaku_backend/internals/features/attendance/checkin/model"
	"gerejaku_backend/internals/features/attendance/checkin/service"
	memberModel "gerejaku_backend/internals/features/members/member/model"
)

type NewVisitorPayload struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=80"`
	LastName     string  `json:"last_name" validate:"max=80"`
	Gender       string  `json:"gender" validate:"required,oneof=male female"`
	AgeGroup     string  `json:"age_group" validate:"required,oneof=child adolescent adult"`
	Phone        *string `json:"phone" validate:"omitempty,min=8,max=30"`
	HowHeard     *string `json:"how_heard" validate:"omitempty,max=255"`
	PrayerPoints *string `json:"prayer_points" validate:"omitempty,max=2000"`
}

func (p *NewVisitorPayload) ToInput() *service.NewVisitorInput {
	if p == nil {
		return nil
	}
	return &service.NewVisitorInput{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Gender:       memberModel.Gender(p.Gender),
		AgeGroup:     memberModel.AgeGroup(p.AgeGroup),
		Phone:        p.Phone,
		HowHeard:     p.HowHeard,
		PrayerPoints: p.PrayerPoints,
	}
}

// CheckInRequest: tepat satu dari member_id / new_visitor (dicek di engine).
type CheckInRequest struct {
	GatheringID *uuid.UUID         `json:"gathering_id"`
	MemberID    *uuid.UUID         `json:"member_id"`
	NewVisitor  *NewVisitorPayload `json:"new_visitor"`
	Method      string             `json:"method" validate:"required,oneof=fingerprint manual family visitor external"`
	IsGuest     bool               `json:"is_guest"`
}

func (r CheckInRequest) ToInput(tenantID uuid.UUID) service.CheckInInput {
	return service.CheckInInput{
		TenantID:    tenantID,
		GatheringID: r.GatheringID,
		Person: service.PersonReference{
			MemberID:   r.MemberID,
			NewVisitor: r.NewVisitor.ToInput(),
		},
		Method:  model.CheckInMethod(r.Method),
		IsGuest: r.IsGuest,
	}
}

type FamilyCheckInRequest struct {
	GatheringID  *uuid.UUID `json:"gathering_id"`
	HeadMemberID uuid.UUID  `json:"head_member_id" validate:"required"`

	// null = semua anak; [] = tidak ada anak sama sekali (hanya kepala)
	ChildIDs []uuid.UUID `json:"child_ids"`
}

type ResolveBiometricRequest struct {
	BiometricToken string `json:"biometric_token" validate:"required"`
}

// CorrectionRequest: entri historis oleh admin, tanggal wajib eksplisit.
type CorrectionRequest struct {
	GatheringID *uuid.UUID `json:"gathering_id"`
	MemberID    uuid.UUID  `json:"member_id" validate:"required"`
	Date        string     `json:"date" validate:"required,datetime=2006-01-02"`
}

type AttendanceRecordResponse struct {
	AttendanceID   string     `json:"attendance_id"`
	GatheringID    *uuid.UUID `json:"gathering_id,omitempty"`
	MemberID       *uuid.UUID `json:"member_id,omitempty"`
	VisitorID      *uuid.UUID `json:"visitor_id,omitempty"`
	Date           string     `json:"date"`
	Method         string     `json:"method"`
	CheckedInAt    time.Time  `json:"checked_in_at"`
	IsGuest        bool       `json:"is_guest"`
	PersonName     string     `json:"person_name"`
	PersonGender   string     `json:"person_gender"`
	PersonAgeGroup string     `json:"person_age_group"`
}

func FromAttendanceRecord(r model.AttendanceRecordModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		AttendanceID:   r.AttendanceID.String(),
		GatheringID:    r.AttendanceGatheringID,
		MemberID:       r.AttendanceMemberID,
		VisitorID:      r.AttendanceVisitorID,
		Date:           r.AttendanceDate.Format("2006-01-02"),
		Method:         string(r.AttendanceMethod),
		CheckedInAt:    r.AttendanceCheckedInAt,
		IsGuest:        r.AttendanceIsGuest,
		PersonName:     r.AttendancePersonName,
		PersonGender:   string(r.AttendancePersonGender),
		PersonAgeGroup: string(r.AttendancePersonAgeGroup),
	}
}

func ToAttendanceRecordList(rs []model.AttendanceRecordModel) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromAttendanceRecord(r))
	}
	return out
}
