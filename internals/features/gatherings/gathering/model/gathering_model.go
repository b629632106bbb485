// internals/features/gatherings/gathering/model/gathering_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GatheringRecurrence string

const (
	RecurrenceOnce    GatheringRecurrence = "once"
	RecurrenceWeekly  GatheringRecurrence = "weekly"
	RecurrenceMonthly GatheringRecurrence = "monthly"
)

type GatheringModel struct {
	// PK
	GatheringID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:gathering_id" json:"gathering_id"`

	// FK tenant
	GatheringTenantID uuid.UUID `gorm:"type:uuid;not null;column:gathering_tenant_id;index:idx_gatherings_tenant" json:"gathering_tenant_id"`

	GatheringName     string  `gorm:"type:varchar(120);not null;column:gathering_name" json:"gathering_name"`
	GatheringType     string  `gorm:"type:varchar(40);not null;default:service;column:gathering_type" json:"gathering_type"`
	GatheringLocation *string `gorm:"type:varchar(160);column:gathering_location" json:"gathering_location,omitempty"`

	// Jadwal (window); once pakai tanggal spesifik, weekly pakai hari+jam
	GatheringRecurrence GatheringRecurrence `gorm:"type:varchar(12);not null;default:weekly;column:gathering_recurrence" json:"gathering_recurrence"`
	GatheringStartsAt   *time.Time          `gorm:"column:gathering_starts_at" json:"gathering_starts_at,omitempty"`
	GatheringEndsAt     *time.Time          `gorm:"column:gathering_ends_at" json:"gathering_ends_at,omitempty"`

	GatheringIsActive bool `gorm:"not null;default:true;column:gathering_is_active;index:idx_gatherings_is_active" json:"gathering_is_active"`

	// =========================================================
	// External check-in sub-resource.
	// Invariant: maksimal satu pasangan PIN+URL aktif per gathering;
	// disable mengosongkan keduanya, enable selalu regenerate keduanya.
	// =========================================================
	GatheringExternalEnabled   bool       `gorm:"not null;default:false;column:gathering_external_enabled" json:"gathering_external_enabled"`
	GatheringExternalURLToken  *string    `gorm:"type:varchar(32);column:gathering_external_url_token" json:"-"`
	GatheringExternalPIN       *string    `gorm:"type:varchar(6);column:gathering_external_pin" json:"-"`
	GatheringExternalEnabledAt *time.Time `gorm:"column:gathering_external_enabled_at" json:"gathering_external_enabled_at,omitempty"`

	// Timestamps
	GatheringCreatedAt time.Time      `gorm:"column:gathering_created_at;autoCreateTime" json:"gathering_created_at"`
	GatheringUpdatedAt time.Time      `gorm:"column:gathering_updated_at;autoUpdateTime" json:"gathering_updated_at"`
	GatheringDeletedAt gorm.DeletedAt `gorm:"column:gathering_deleted_at;index" json:"gathering_deleted_at,omitempty"`
}

func (GatheringModel) TableName() string {
	return "gatherings"
}
