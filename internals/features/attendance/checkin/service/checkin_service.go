// internals/features/attendance/checkin/service/checkin_service.go
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/attendance/checkin/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/members/visitor/model"
	policy "gerejaku_backend/internals/features/tenants/tenant/service"
	"gerejaku_backend/internals/helpers/dbtime"
)

/* =========================================================
   Input types
========================================================= */

// NewVisitorInput: payload visitor baru saat check-in pertama kali.
type NewVisitorInput struct {
	FirstName    string
	LastName     string
	Gender       memberModel.Gender
	AgeGroup     memberModel.AgeGroup
	Phone        *string
	HowHeard     *string
	PrayerPoints *string
}

// PersonReference: union tertutup — tepat satu dari MemberID / NewVisitor.
// Dua-duanya atau tidak sama sekali = MalformedRequest.
type PersonReference struct {
	MemberID   *uuid.UUID
	NewVisitor *NewVisitorInput
}

func (p PersonReference) wellFormed() bool {
	return (p.MemberID != nil) != (p.NewVisitor != nil)
}

type CheckInInput struct {
	TenantID    uuid.UUID
	GatheringID *uuid.UUID // nil = check-in ad-hoc
	Person      PersonReference
	Method      model.CheckInMethod

	// Date nil = live check-in (selalu distempel "hari ini" di zona tenant).
	// Non-nil hanya untuk koreksi historis oleh admin — jalur operasinya
	// terpisah dan diotorisasi sendiri.
	Date *time.Time

	IsGuest bool
}

/* =========================================================
   Outcome types
========================================================= */

type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
)

type RejectReason string

const (
	RejectMalformedPerson   RejectReason = "malformed_person"
	RejectPolicyDenied      RejectReason = "policy_denied"
	RejectGatheringNotFound RejectReason = "gathering_not_found"
	RejectGatheringInactive RejectReason = "gathering_inactive"
	RejectMemberNotFound    RejectReason = "member_not_found"
	RejectInvalidMethod     RejectReason = "invalid_method"
)

// CheckInResult: hasil terminal satu attempt. Duplicate dan Rejected
// (policy) adalah outcome yang diharapkan, bukan error — error hanya
// untuk kegagalan storage yang tidak terduga.
type CheckInResult struct {
	Outcome    Outcome                      `json:"outcome"`
	Record     *model.AttendanceRecordModel `json:"record,omitempty"`
	PersonName string                       `json:"person_name,omitempty"`

	// Duplicate: kapan record lama dibuat
	ExistingCheckedInAt *time.Time `json:"existing_checked_in_at,omitempty"`

	// Rejected
	RejectReason RejectReason `json:"reject_reason,omitempty"`
	DeniedLimit  int64        `json:"denied_limit,omitempty"`
	Message      string       `json:"message,omitempty"`
}

/* =========================================================
   Service
========================================================= */

// CheckinService: state machine per attempt —
// Received → PolicyChecked → Resolved → DuplicateChecked →
// {Accepted | Rejected | Duplicate}. Tanpa shared mutable state;
// uniqueness dijaga oleh conditional insert di Store.
type CheckinService struct {
	store Store
	now   func() time.Time
}

func NewCheckinService(store Store) *CheckinService {
	return &CheckinService{store: store, now: time.Now}
}

func capabilityForMethod(m model.CheckInMethod) constants.Capability {
	switch m {
	case model.MethodFingerprint:
		return constants.CapabilityBiometricCheckin
	case model.MethodExternal:
		return constants.CapabilityExternalCheckin
	case model.MethodFamily:
		return constants.CapabilityFamilyCheckin
	default:
		return constants.CapabilityCheckin
	}
}

// attendanceDate: live = hari ini (zona tenant), koreksi = tanggal eksplisit.
func (s *CheckinService) attendanceDate(explicit *time.Time) time.Time {
	if explicit != nil {
		return dbtime.DateOnly(*explicit)
	}
	return dbtime.DateOnly(s.now())
}

// CheckIn menjalankan satu attempt penuh untuk satu orang.
func (s *CheckinService) CheckIn(ctx context.Context, in CheckInInput) (*CheckInResult, error) {
	// --- Received ---
	if !in.Method.Valid() {
		return &CheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectInvalidMethod,
			Message:      "Metode check-in tidak dikenal",
		}, nil
	}
	if !in.Person.wellFormed() {
		return &CheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectMalformedPerson,
			Message:      "Harus tepat satu: member_id atau data visitor baru",
		}, nil
	}

	// --- PolicyChecked (fail closed) ---
	tenant, err := s.store.GetTenant(ctx, in.TenantID)
	if err != nil {
		tenant = nil // lookup gagal = Denied, bukan error
	}
	decision := policy.EvaluateTenant(tenant, capabilityForMethod(in.Method), 0, s.now())
	if decision.Allowed && in.Date != nil {
		decision = policy.EvaluateTenant(tenant, constants.CapabilityHistoricalEntry, 0, s.now())
	}
	if !decision.Allowed {
		return &CheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectPolicyDenied,
			DeniedLimit:  decision.Limit,
			Message:      decision.Reason,
		}, nil
	}

	// --- Resolved: gathering (kalau ada) ---
	if in.GatheringID != nil {
		g, err := s.store.GetGathering(ctx, in.TenantID, *in.GatheringID)
		if err == ErrNotFound {
			return &CheckInResult{
				Outcome:      OutcomeRejected,
				RejectReason: RejectGatheringNotFound,
				Message:      "Gathering tidak ditemukan",
			}, nil
		}
		if err != nil {
			return nil, err
		}
		if !g.GatheringIsActive {
			return &CheckInResult{
				Outcome:      OutcomeRejected,
				RejectReason: RejectGatheringInactive,
				Message:      "Gathering sudah tidak aktif",
			}, nil
		}
	}

	date := s.attendanceDate(in.Date)

	// --- Resolved: orang ---
	if in.Person.MemberID != nil {
		return s.checkInMember(ctx, in, *in.Person.MemberID, date)
	}
	return s.checkInVisitor(ctx, in, date)
}

func (s *CheckinService) checkInMember(ctx context.Context, in CheckInInput, memberID uuid.UUID, date time.Time) (*CheckInResult, error) {
	m, err := s.store.GetMember(ctx, in.TenantID, memberID)
	if err == ErrNotFound {
		return &CheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectMemberNotFound,
			Message:      "Member tidak ditemukan",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	rec := &model.AttendanceRecordModel{
		AttendanceTenantID:       in.TenantID,
		AttendanceGatheringID:    in.GatheringID,
		AttendanceMemberID:       &m.MemberID,
		AttendanceDate:           date,
		AttendanceMethod:         in.Method,
		AttendanceCheckedInAt:    s.now(),
		AttendanceIsGuest:        in.IsGuest,
		AttendancePersonName:     m.DisplayName(),
		AttendancePersonGender:   m.MemberGender,
		AttendancePersonAgeGroup: m.MemberAgeGroup,
	}

	// --- DuplicateChecked + write dalam satu operasi atomik ---
	inserted, existing, err := s.store.InsertAttendanceIfAbsent(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !inserted {
		res := &CheckInResult{
			Outcome:    OutcomeDuplicate,
			PersonName: m.DisplayName(),
			Message:    m.DisplayName() + " sudah check-in hari itu",
		}
		if existing != nil {
			t := existing.AttendanceCheckedInAt
			res.ExistingCheckedInAt = &t
		}
		return res, nil
	}

	// --- Accepted: side effect best-effort, tidak pernah me-rollback fakta ---
	if err := s.store.ResetFollowUp(ctx, in.TenantID, m.MemberID); err != nil {
		log.Printf("[CHECKIN] reset follow-up member=%s err: %v", m.MemberID, err)
	}

	return &CheckInResult{
		Outcome:    OutcomeAccepted,
		Record:     rec,
		PersonName: m.DisplayName(),
	}, nil
}

func (s *CheckinService) checkInVisitor(ctx context.Context, in CheckInInput, date time.Time) (*CheckInResult, error) {
	nv := in.Person.NewVisitor
	if strings.TrimSpace(nv.FirstName) == "" || nv.Gender == "" || nv.AgeGroup == "" {
		return &CheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectMalformedPerson,
			Message:      "Visitor baru wajib punya nama, gender, dan kelompok usia",
		}, nil
	}

	v := &visitorModel.VisitorModel{
		VisitorTenantID:  in.TenantID,
		VisitorFirstName: strings.TrimSpace(nv.FirstName),
		VisitorLastName:  strings.TrimSpace(nv.LastName),
		VisitorGender:    nv.Gender,
		VisitorAgeGroup:  nv.AgeGroup,
		VisitorPhone:     nv.Phone,
		VisitorHowHeard:  nv.HowHeard,
		VisitorPrayerPoints: nv.PrayerPoints,
	}
	if err := s.store.CreateVisitor(ctx, v); err != nil {
		return nil, err
	}

	rec := &model.AttendanceRecordModel{
		AttendanceTenantID:       in.TenantID,
		AttendanceGatheringID:    in.GatheringID,
		AttendanceVisitorID:      &v.VisitorID,
		AttendanceDate:           date,
		AttendanceMethod:         model.MethodVisitor,
		AttendanceCheckedInAt:    s.now(),
		AttendanceIsGuest:        true,
		AttendancePersonName:     v.DisplayName(),
		AttendancePersonGender:   v.VisitorGender,
		AttendancePersonAgeGroup: v.VisitorAgeGroup,
	}

	inserted, existing, err := s.store.InsertAttendanceIfAbsent(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Visitor baru dapat id baru, jadi praktis tidak mungkin duplicate —
		// tapi kontraknya tetap sama.
		res := &CheckInResult{
			Outcome:    OutcomeDuplicate,
			PersonName: v.DisplayName(),
			Message:    v.DisplayName() + " sudah check-in hari itu",
		}
		if existing != nil {
			t := existing.AttendanceCheckedInAt
			res.ExistingCheckedInAt = &t
		}
		return res, nil
	}

	return &CheckInResult{
		Outcome:    OutcomeAccepted,
		Record:     rec,
		PersonName: v.DisplayName(),
	}, nil
}
