// internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	pq "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gerejaku_backend/internals/configs"
	"gerejaku_backend/internals/features/users/auth/dto"
	"gerejaku_backend/internals/features/users/auth/model"
	helper "gerejaku_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB, validate *validator.Validate) *AuthController {
	if validate == nil {
		validate = validator.New()
	}
	return &AuthController{DB: db, Validate: validate}
}

func isUnique(err error) bool {
	var e *pq.Error
	if errors.As(err, &e) {
		return e.Code == "23505"
	}
	lo := strings.ToLower(err.Error())
	return strings.Contains(lo, "duplicate") || strings.Contains(lo, "unique")
}

func toUserResponse(u model.UserModel) dto.UserResponse {
	resp := dto.UserResponse{
		UserID:   u.UserID.String(),
		FullName: u.UserFullName,
		Email:    u.UserEmail,
		Role:     u.UserRole,
	}
	if u.UserTenantID != nil {
		s := u.UserTenantID.String()
		resp.TenantID = &s
	}
	return resp
}

// =====================================================
// LOGIN: POST /api/auth/login
// =====================================================
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var u model.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_email = ? AND user_is_active = TRUE", strings.ToLower(req.Email)).
		Take(&u).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.UserPassword), []byte(req.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}

	ttlHours := configs.GetEnvInt("ACCESS_TOKEN_TTL_HOURS", 12)
	expiresAt := time.Now().Add(time.Duration(ttlHours) * time.Hour)

	claims := jwt.MapClaims{
		"sub":  u.UserID.String(),
		"role": u.UserRole,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	}
	if u.UserTenantID != nil {
		claims["tenant_id"] = u.UserTenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		log.Printf("[AUTH] sign token err: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.JsonOK(c, "Login berhasil", dto.LoginResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        toUserResponse(u),
	})
}

// =====================================================
// CREATE STAFF: POST /api/a/staff (admin tenant)
// =====================================================
func (ctl *AuthController) CreateStaff(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	u := model.UserModel{
		UserTenantID: &tenantID,
		UserFullName: req.FullName,
		UserEmail:    strings.ToLower(req.Email),
		UserPassword: string(hash),
		UserRole:     req.Role,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&u).Error; err != nil {
		if isUnique(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat akun staff")
	}

	return helper.JsonCreated(c, "Akun staff dibuat", toUserResponse(u))
}

// =====================================================
// ME: GET /api/u/me
// =====================================================
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var u model.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_id = ?", userID).
		Take(&u).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonOK(c, "OK", toUserResponse(u))
}
