// internals/features/users/auth/dto/auth_dto.go
package dto

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateStaffRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	UserID   string  `json:"user_id"`
	TenantID *string `json:"tenant_id,omitempty"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
}
