// internals/features/attendance/checkin/service/store_gorm.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	pq "github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gerejaku_backend/internals/features/attendance/checkin/model"
	followupModel "gerejaku_backend/internals/features/attendance/followup/model"
	gatheringModel "gerejaku_backend/internals/features/gatherings/gathering/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/members/visitor/model"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
)

// GormStore: implementasi Store di atas PostgreSQL.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Deteksi unique violation Postgres (kode "23505")
func isUniqueViolation(err error) bool {
	var e *pq.Error
	if errors.As(err, &e) {
		return e.Code == "23505"
	}
	// fallback string check (driver pgx lewat sini)
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "23505")
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (s *GormStore) GetTenant(ctx context.Context, tenantID uuid.UUID) (*tenantModel.TenantModel, error) {
	var t tenantModel.TenantModel
	if err := s.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Take(&t).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) GetGathering(ctx context.Context, tenantID, gatheringID uuid.UUID) (*gatheringModel.GatheringModel, error) {
	var g gatheringModel.GatheringModel
	if err := s.DB.WithContext(ctx).
		Where("gathering_tenant_id = ? AND gathering_id = ?", tenantID, gatheringID).
		Take(&g).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (s *GormStore) GetMember(ctx context.Context, tenantID, memberID uuid.UUID) (*memberModel.MemberModel, error) {
	var m memberModel.MemberModel
	if err := s.DB.WithContext(ctx).
		Where("member_tenant_id = ? AND member_id = ?", tenantID, memberID).
		Take(&m).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) FindMemberByBiometricToken(ctx context.Context, tenantID uuid.UUID, token string) (*memberModel.MemberModel, error) {
	var m memberModel.MemberModel
	if err := s.DB.WithContext(ctx).
		Where("member_tenant_id = ? AND member_biometric_token = ?", tenantID, token).
		Take(&m).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) ListFamilyChildren(ctx context.Context, tenantID, familyGroupID uuid.UUID) ([]memberModel.MemberModel, error) {
	var children []memberModel.MemberModel
	err := s.DB.WithContext(ctx).
		Where(`member_tenant_id = ?
		   AND member_family_group_id = ?
		   AND member_id <> ?
		   AND member_is_current = TRUE`, tenantID, familyGroupID, familyGroupID).
		Order("member_created_at ASC").
		Find(&children).Error
	return children, err
}

func (s *GormStore) CreateVisitor(ctx context.Context, v *visitorModel.VisitorModel) error {
	return s.DB.WithContext(ctx).Create(v).Error
}

// InsertAttendanceIfAbsent: ON CONFLICT DO NOTHING terhadap partial
// unique index kunci kehadiran. RowsAffected == 0 (atau 23505 yang lolos)
// = sudah ada → ambil record lama. Read-then-write TIDAK dipakai sebagai
// satu-satunya guard; index DB yang otoritatif di bawah konkurensi.
func (s *GormStore) InsertAttendanceIfAbsent(ctx context.Context, rec *model.AttendanceRecordModel) (bool, *model.AttendanceRecordModel, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			existing, err := s.findExisting(ctx, rec)
			return false, existing, err
		}
		return false, nil, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := s.findExisting(ctx, rec)
		return false, existing, err
	}
	return true, nil, nil
}

func (s *GormStore) findExisting(ctx context.Context, rec *model.AttendanceRecordModel) (*model.AttendanceRecordModel, error) {
	q := s.DB.WithContext(ctx).
		Where("attendance_tenant_id = ? AND attendance_date = ?", rec.AttendanceTenantID, rec.AttendanceDate)

	if rec.AttendanceGatheringID != nil {
		q = q.Where("attendance_gathering_id = ?", *rec.AttendanceGatheringID)
	} else {
		q = q.Where("attendance_gathering_id IS NULL")
	}

	switch {
	case rec.AttendanceMemberID != nil:
		q = q.Where("attendance_member_id = ?", *rec.AttendanceMemberID)
	case rec.AttendanceVisitorID != nil:
		q = q.Where("attendance_visitor_id = ?", *rec.AttendanceVisitorID)
	}

	var existing model.AttendanceRecordModel
	if err := q.Take(&existing).Error; err != nil {
		if notFound(err) {
			// balapan dengan corrective delete; duplicate tanpa detail
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// ResetFollowUp: kehadiran selalu membatalkan kebutuhan follow-up,
// apa pun metodenya. Baris dibuat lazy kalau belum ada.
func (s *GormStore) ResetFollowUp(ctx context.Context, tenantID, memberID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Model(&followupModel.FollowUpModel{}).
		Where("follow_up_tenant_id = ? AND follow_up_member_id = ?", tenantID, memberID).
		Updates(map[string]any{
			"follow_up_consecutive_absences": 0,
			"follow_up_needs_follow_up":      false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	row := followupModel.FollowUpModel{
		FollowUpTenantID: tenantID,
		FollowUpMemberID: memberID,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil // baris keburu dibuat proses lain; state-nya sudah nol
		}
		return err
	}
	return nil
}
