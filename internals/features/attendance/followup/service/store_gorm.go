// internals/features/attendance/followup/service/store_gorm.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	checkinModel "gerejaku_backend/internals/features/attendance/checkin/model"
	"gerejaku_backend/internals/features/attendance/followup/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
)

type GormFollowUpStore struct {
	DB *gorm.DB
}

func NewGormFollowUpStore(db *gorm.DB) *GormFollowUpStore {
	return &GormFollowUpStore{DB: db}
}

func (s *GormFollowUpStore) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).
		Model(&tenantModel.TenantModel{}).
		Where("tenant_tier <> ?", "suspended").
		Pluck("tenant_id", &ids).Error
	return ids, err
}

func (s *GormFollowUpStore) ListCurrentMembers(ctx context.Context, tenantID uuid.UUID) ([]memberModel.MemberModel, error) {
	var members []memberModel.MemberModel
	err := s.DB.WithContext(ctx).
		Where("member_tenant_id = ? AND member_is_current = TRUE", tenantID).
		Find(&members).Error
	return members, err
}

func (s *GormFollowUpStore) GetMember(ctx context.Context, tenantID, memberID uuid.UUID) (*memberModel.MemberModel, error) {
	var m memberModel.MemberModel
	if err := s.DB.WithContext(ctx).
		Where("member_tenant_id = ? AND member_id = ?", tenantID, memberID).
		Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormFollowUpStore) EnsureFollowUp(ctx context.Context, tenantID, memberID uuid.UUID) (*model.FollowUpModel, error) {
	var fu model.FollowUpModel
	err := s.DB.WithContext(ctx).
		Where("follow_up_tenant_id = ? AND follow_up_member_id = ?", tenantID, memberID).
		Take(&fu).Error
	if err == nil {
		return &fu, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fu = model.FollowUpModel{
		FollowUpTenantID: tenantID,
		FollowUpMemberID: memberID,
	}
	if err := s.DB.WithContext(ctx).Create(&fu).Error; err != nil {
		return nil, err
	}
	return &fu, nil
}

func (s *GormFollowUpStore) SaveFollowUp(ctx context.Context, fu *model.FollowUpModel) error {
	return s.DB.WithContext(ctx).Save(fu).Error
}

// LastAttendanceAt mengembalikan timestamp check-in terakhir, bukan
// attendance_date: scan membandingkannya dengan last_scanned_at yang juga
// timestamp, jadi kehadiran di hari kalender yang sama dengan scan
// sebelumnya tetap terhitung hadir.
func (s *GormFollowUpStore) LastAttendanceAt(ctx context.Context, tenantID, memberID uuid.UUID) (*time.Time, error) {
	var rec checkinModel.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		Where("attendance_tenant_id = ? AND attendance_member_id = ?", tenantID, memberID).
		Order("attendance_checked_in_at DESC").
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t := rec.AttendanceCheckedInAt
	return &t, nil
}
