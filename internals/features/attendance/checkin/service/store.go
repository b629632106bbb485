// internals/features/attendance/checkin/service/store.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gerejaku_backend/internals/features/attendance/checkin/model"
	gatheringModel "gerejaku_backend/internals/features/gatherings/gathering/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/members/visitor/model"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
)

// ErrNotFound: record yang diminta tidak ada (bukan kegagalan storage).
var ErrNotFound = errors.New("record tidak ditemukan")

// Store: kontrak storage tenant-scoped untuk decision engine.
// Semua lookup dikunci ke tenantID pemanggil; InsertAttendanceIfAbsent
// adalah operasi atomic insert-if-absent terhadap kunci uniqueness
// (tenant, gathering-atau-none, orang, tanggal).
type Store interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*tenantModel.TenantModel, error)
	GetGathering(ctx context.Context, tenantID, gatheringID uuid.UUID) (*gatheringModel.GatheringModel, error)
	GetMember(ctx context.Context, tenantID, memberID uuid.UUID) (*memberModel.MemberModel, error)
	FindMemberByBiometricToken(ctx context.Context, tenantID uuid.UUID, token string) (*memberModel.MemberModel, error)

	// ListFamilyChildren: semua member current non-head dalam satu family group.
	ListFamilyChildren(ctx context.Context, tenantID, familyGroupID uuid.UUID) ([]memberModel.MemberModel, error)

	CreateVisitor(ctx context.Context, v *visitorModel.VisitorModel) error

	// InsertAttendanceIfAbsent: inserted=false berarti sudah ada record
	// untuk kunci yang sama; existing berisi record lama tersebut.
	// Pelanggaran unique constraint di DB juga dipetakan ke inserted=false,
	// tidak pernah jadi error.
	InsertAttendanceIfAbsent(ctx context.Context, rec *model.AttendanceRecordModel) (inserted bool, existing *model.AttendanceRecordModel, err error)

	// ResetFollowUp: side effect penerimaan — nolkan counter absen dan
	// clear flag needs_follow_up member tersebut.
	ResetFollowUp(ctx context.Context, tenantID, memberID uuid.UUID) error
}
