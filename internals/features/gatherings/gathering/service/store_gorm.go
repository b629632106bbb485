// internals/features/gatherings/gathering/service/store_gorm.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	checkinService "gerejaku_backend/internals/features/attendance/checkin/service"
	"gerejaku_backend/internals/features/gatherings/gathering/model"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
)

type GormGatewayStore struct {
	DB *gorm.DB
}

func NewGormGatewayStore(db *gorm.DB) *GormGatewayStore {
	return &GormGatewayStore{DB: db}
}

func (s *GormGatewayStore) GetGathering(ctx context.Context, tenantID, gatheringID uuid.UUID) (*model.GatheringModel, error) {
	var g model.GatheringModel
	if err := s.DB.WithContext(ctx).
		Where("gathering_tenant_id = ? AND gathering_id = ?", tenantID, gatheringID).
		Take(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkinService.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (s *GormGatewayStore) FindGatheringByURLToken(ctx context.Context, token string) (*model.GatheringModel, error) {
	var g model.GatheringModel
	if err := s.DB.WithContext(ctx).
		Where("gathering_external_url_token = ?", token).
		Take(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkinService.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// SaveExternalCheckin menulis hanya kolom sub-resource external check-in.
func (s *GormGatewayStore) SaveExternalCheckin(ctx context.Context, g *model.GatheringModel) error {
	return s.DB.WithContext(ctx).
		Model(&model.GatheringModel{}).
		Where("gathering_tenant_id = ? AND gathering_id = ?", g.GatheringTenantID, g.GatheringID).
		Updates(map[string]any{
			"gathering_external_enabled":    g.GatheringExternalEnabled,
			"gathering_external_url_token":  g.GatheringExternalURLToken,
			"gathering_external_pin":        g.GatheringExternalPIN,
			"gathering_external_enabled_at": g.GatheringExternalEnabledAt,
		}).Error
}

func (s *GormGatewayStore) GetTenant(ctx context.Context, tenantID uuid.UUID) (*tenantModel.TenantModel, error) {
	var t tenantModel.TenantModel
	if err := s.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkinService.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
