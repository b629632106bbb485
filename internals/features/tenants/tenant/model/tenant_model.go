// internals/features/tenants/tenant/model/tenant_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
)

type TenantModel struct {
	// PK
	TenantID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:tenant_id" json:"tenant_id"`

	TenantName string `gorm:"type:varchar(120);not null;column:tenant_name" json:"tenant_name"`
	TenantSlug string `gorm:"type:varchar(120);not null;uniqueIndex:uq_tenants_slug;column:tenant_slug" json:"tenant_slug"`

	// Tier aktif tepat satu; invariant dijaga di service (enum tertutup)
	TenantTier constants.SubscriptionTier `gorm:"type:varchar(16);not null;default:trial;column:tenant_tier;index:idx_tenants_tier" json:"tenant_tier"`

	// Jendela trial (diisi saat registrasi)
	TenantTrialStartsAt *time.Time `gorm:"column:tenant_trial_starts_at" json:"tenant_trial_starts_at,omitempty"`
	TenantTrialEndsAt   *time.Time `gorm:"column:tenant_trial_ends_at" json:"tenant_trial_ends_at,omitempty"`

	// Override batas member; nil = pakai default tier
	TenantMaxMembers *int64 `gorm:"column:tenant_max_members" json:"tenant_max_members,omitempty"`

	// Mode kiosk untuk check-in mandiri di lobi
	TenantKioskModeEnabled    bool `gorm:"not null;default:false;column:tenant_kiosk_mode_enabled" json:"tenant_kiosk_mode_enabled"`
	TenantKioskTimeoutSeconds int  `gorm:"not null;default:60;column:tenant_kiosk_timeout_seconds" json:"tenant_kiosk_timeout_seconds"`

	// Branding & preferensi (warna, logo URL, dsb)
	TenantSettings datatypes.JSON `gorm:"type:jsonb;column:tenant_settings" json:"tenant_settings,omitempty"`

	TenantContactEmail *string `gorm:"type:varchar(120);column:tenant_contact_email" json:"tenant_contact_email,omitempty"`
	TenantContactPhone *string `gorm:"type:varchar(30);column:tenant_contact_phone" json:"tenant_contact_phone,omitempty"`

	// Timestamps (tenant tidak pernah hard-delete; suspend = ganti tier)
	TenantCreatedAt time.Time      `gorm:"column:tenant_created_at;autoCreateTime" json:"tenant_created_at"`
	TenantUpdatedAt time.Time      `gorm:"column:tenant_updated_at;autoUpdateTime" json:"tenant_updated_at"`
	TenantDeletedAt gorm.DeletedAt `gorm:"column:tenant_deleted_at;index" json:"tenant_deleted_at,omitempty"`
}

func (TenantModel) TableName() string {
	return "tenants"
}

// TrialActive: trial masih berjalan relatif terhadap now.
func (t *TenantModel) TrialActive(now time.Time) bool {
	return t.TenantTier == constants.TierTrial &&
		t.TenantTrialEndsAt != nil &&
		now.Before(*t.TenantTrialEndsAt)
}

// EffectiveMemberLimit: override per-tenant menang atas default tier.
// 0 = unlimited.
func (t *TenantModel) EffectiveMemberLimit() int64 {
	if t.TenantMaxMembers != nil {
		return *t.TenantMaxMembers
	}
	return constants.MemberLimitForTier(t.TenantTier)
}
