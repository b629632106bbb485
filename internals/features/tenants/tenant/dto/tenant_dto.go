// internals/features/tenants/tenant/dto/tenant_dto.go
package dto

import (
	"time"

	"gorm.io/datatypes"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/tenants/tenant/model"
)

type RegisterTenantRequest struct {
	TenantName   string `json:"tenant_name" validate:"required,min=3,max=120"`
	TenantSlug   string `json:"tenant_slug" validate:"required,min=3,max=120,lowercase"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,min=8,max=30"`

	// Akun admin pertama tenant
	AdminFullName string `json:"admin_full_name" validate:"required,min=3,max=120"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

type UpdateTenantRequest struct {
	TenantName          *string         `json:"tenant_name" validate:"omitempty,min=3,max=120"`
	ContactEmail        *string         `json:"contact_email" validate:"omitempty,email"`
	ContactPhone        *string         `json:"contact_phone" validate:"omitempty,min=8,max=30"`
	KioskModeEnabled    *bool           `json:"kiosk_mode_enabled"`
	KioskTimeoutSeconds *int            `json:"kiosk_timeout_seconds" validate:"omitempty,min=10,max=600"`
	Settings            *datatypes.JSON `json:"settings"`
}

type SetTierRequest struct {
	Tier       constants.SubscriptionTier `json:"tier" validate:"required"`
	MaxMembers *int64                     `json:"max_members" validate:"omitempty,min=1"`
}

type FactoryResetRequest struct {
	// Konfirmasi eksplisit: harus sama dengan slug tenant
	ConfirmSlug string `json:"confirm_slug" validate:"required"`
}

type TenantResponse struct {
	TenantID            string                     `json:"tenant_id"`
	TenantName          string                     `json:"tenant_name"`
	TenantSlug          string                     `json:"tenant_slug"`
	Tier                constants.SubscriptionTier `json:"tier"`
	TrialEndsAt         *time.Time                 `json:"trial_ends_at,omitempty"`
	MemberLimit         int64                      `json:"member_limit"`
	KioskModeEnabled    bool                       `json:"kiosk_mode_enabled"`
	KioskTimeoutSeconds int                        `json:"kiosk_timeout_seconds"`
	Settings            datatypes.JSON             `json:"settings,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
}

func FromTenantModel(t model.TenantModel) TenantResponse {
	return TenantResponse{
		TenantID:            t.TenantID.String(),
		TenantName:          t.TenantName,
		TenantSlug:          t.TenantSlug,
		Tier:                t.TenantTier,
		TrialEndsAt:         t.TenantTrialEndsAt,
		MemberLimit:         t.EffectiveMemberLimit(),
		KioskModeEnabled:    t.TenantKioskModeEnabled,
		KioskTimeoutSeconds: t.TenantKioskTimeoutSeconds,
		Settings:            t.TenantSettings,
		CreatedAt:           t.TenantCreatedAt,
	}
}
