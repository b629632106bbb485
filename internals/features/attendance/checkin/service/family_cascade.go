// internals/features/attendance/checkin/service/family_cascade.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/attendance/checkin/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	policy "gerejaku_backend/internals/features/tenants/tenant/service"
)

type FamilyCheckInInput struct {
	TenantID     uuid.UUID
	GatheringID  *uuid.UUID
	HeadMemberID uuid.UUID

	// ChildIDs nil = semua anak di family group; non-nil = subset eksplisit.
	// Dua varian ini satu jalur kode, jadi perilaku duplicate-nya identik.
	ChildIDs []uuid.UUID

	Date *time.Time
}

// FamilyChildResult: satu entri enumerasi hasil cascade.
type FamilyChildResult struct {
	MemberID   uuid.UUID  `json:"member_id"`
	Name       string     `json:"name"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

type FamilyCheckInResult struct {
	Outcome      Outcome             `json:"outcome"`
	RejectReason RejectReason        `json:"reject_reason,omitempty"`
	DeniedLimit  int64               `json:"denied_limit,omitempty"`
	Message      string              `json:"message,omitempty"`

	Head            *CheckInResult      `json:"head,omitempty"`
	NewlyCheckedIn  []FamilyChildResult `json:"newly_checked_in"`
	Skipped         []FamilyChildResult `json:"skipped"`
}

// FamilyCheckIn: satu aksi kepala keluarga meng-cover beberapa orang.
// Setiap anak dievaluasi independen lewat duplicate check yang sama;
// anak yang sudah check-in hari itu di-skip diam-diam (bukan error) dan
// dilaporkan di Skipped. Cascade tidak eksklusif: cascade paralel untuk
// keluarga yang sama aman karena tiap write anak dedup sendiri-sendiri.
func (s *CheckinService) FamilyCheckIn(ctx context.Context, in FamilyCheckInInput) (*FamilyCheckInResult, error) {
	// Policy dulu (fail closed)
	tenant, err := s.store.GetTenant(ctx, in.TenantID)
	if err != nil {
		tenant = nil
	}
	decision := policy.EvaluateTenant(tenant, constants.CapabilityFamilyCheckin, 0, s.now())
	if decision.Allowed && in.Date != nil {
		decision = policy.EvaluateTenant(tenant, constants.CapabilityHistoricalEntry, 0, s.now())
	}
	if !decision.Allowed {
		return &FamilyCheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectPolicyDenied,
			DeniedLimit:  decision.Limit,
			Message:      decision.Reason,
		}, nil
	}

	// Gathering divalidasi sekali untuk seluruh cascade — aturannya sama
	// dengan check-in tunggal.
	if in.GatheringID != nil {
		g, err := s.store.GetGathering(ctx, in.TenantID, *in.GatheringID)
		if err == ErrNotFound {
			return &FamilyCheckInResult{
				Outcome:      OutcomeRejected,
				RejectReason: RejectGatheringNotFound,
				Message:      "Gathering tidak ditemukan",
			}, nil
		}
		if err != nil {
			return nil, err
		}
		if !g.GatheringIsActive {
			return &FamilyCheckInResult{
				Outcome:      OutcomeRejected,
				RejectReason: RejectGatheringInactive,
				Message:      "Gathering sudah tidak aktif",
			}, nil
		}
	}

	head, err := s.store.GetMember(ctx, in.TenantID, in.HeadMemberID)
	if err == ErrNotFound {
		return &FamilyCheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectMemberNotFound,
			Message:      "Kepala keluarga tidak ditemukan",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if !head.MemberIsFamilyHead || head.MemberFamilyGroupID == nil || *head.MemberFamilyGroupID != head.MemberID {
		return &FamilyCheckInResult{
			Outcome:      OutcomeRejected,
			RejectReason: RejectMemberNotFound,
			Message:      "Member ini bukan kepala keluarga",
		}, nil
	}

	// Head ikut di-check-in; duplicate head bukan alasan menghentikan cascade.
	headResult, err := s.checkInMember(ctx, CheckInInput{
		TenantID:    in.TenantID,
		GatheringID: in.GatheringID,
		Method:      model.MethodFamily,
		Date:        in.Date,
	}, head.MemberID, s.attendanceDate(in.Date))
	if err != nil {
		return nil, err
	}

	children, err := s.store.ListFamilyChildren(ctx, in.TenantID, head.MemberID)
	if err != nil {
		return nil, err
	}

	selected := selectChildren(children, in.ChildIDs)

	result := &FamilyCheckInResult{
		Outcome:        OutcomeAccepted,
		Head:           headResult,
		NewlyCheckedIn: []FamilyChildResult{},
		Skipped:        []FamilyChildResult{},
	}

	date := s.attendanceDate(in.Date)
	for _, child := range selected {
		rec := &model.AttendanceRecordModel{
			AttendanceTenantID:       in.TenantID,
			AttendanceGatheringID:    in.GatheringID,
			AttendanceMemberID:       &child.MemberID,
			AttendanceDate:           date,
			AttendanceMethod:         model.MethodFamily,
			AttendanceCheckedInAt:    s.now(),
			AttendancePersonName:     child.DisplayName(),
			AttendancePersonGender:   child.MemberGender,
			AttendancePersonAgeGroup: child.MemberAgeGroup,
		}

		inserted, existing, err := s.store.InsertAttendanceIfAbsent(ctx, rec)
		if err != nil {
			return nil, err
		}
		if !inserted {
			entry := FamilyChildResult{MemberID: child.MemberID, Name: child.DisplayName()}
			if existing != nil {
				t := existing.AttendanceCheckedInAt
				entry.CheckedInAt = &t
			}
			result.Skipped = append(result.Skipped, entry)
			continue
		}

		t := rec.AttendanceCheckedInAt
		result.NewlyCheckedIn = append(result.NewlyCheckedIn, FamilyChildResult{
			MemberID:    child.MemberID,
			Name:        child.DisplayName(),
			CheckedInAt: &t,
		})

		if err := s.store.ResetFollowUp(ctx, in.TenantID, child.MemberID); err != nil {
			log.Printf("[CHECKIN] reset follow-up member=%s err: %v", child.MemberID, err)
		}
	}

	return result, nil
}

// selectChildren: nil subset = semua; subset eksplisit difilter ke anggota
// keluarga yang valid (id di luar keluarga diabaikan diam-diam).
func selectChildren(children []memberModel.MemberModel, subset []uuid.UUID) []memberModel.MemberModel {
	if subset == nil {
		return children
	}
	wanted := make(map[uuid.UUID]bool, len(subset))
	for _, id := range subset {
		wanted[id] = true
	}
	out := make([]memberModel.MemberModel, 0, len(subset))
	for _, c := range children {
		if wanted[c.MemberID] {
			out = append(out, c)
		}
	}
	return out
}
