// internals/features/users/auth/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel: akun staff/admin per tenant (bukan jemaat).
type UserModel struct {
	// PK
	UserID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`

	// Nil hanya untuk platform owner
	UserTenantID *uuid.UUID `gorm:"type:uuid;column:user_tenant_id;index:idx_users_tenant" json:"user_tenant_id,omitempty"`

	UserFullName string `gorm:"type:varchar(120);not null;column:user_full_name" json:"user_full_name"`
	UserEmail    string `gorm:"type:varchar(120);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`

	// bcrypt hash
	UserPassword string `gorm:"type:varchar(100);not null;column:user_password" json:"-"`

	UserRole     string `gorm:"type:varchar(16);not null;default:staff;column:user_role" json:"user_role"`
	UserIsActive bool   `gorm:"not null;default:true;column:user_is_active" json:"user_is_active"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}
