// internals/features/tenants/tenant/controller/tenant_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	pq "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gerejaku_backend/internals/configs"
	"gerejaku_backend/internals/constants"
	checkinModel "gerejaku_backend/internals/features/attendance/checkin/model"
	followupModel "gerejaku_backend/internals/features/attendance/followup/model"
	gatheringModel "gerejaku_backend/internals/features/gatherings/gathering/model"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	visitorModel "gerejaku_backend/internals/features/members/visitor/model"
	billingModel "gerejaku_backend/internals/features/tenants/billing/model"
	"gerejaku_backend/internals/features/tenants/tenant/dto"
	"gerejaku_backend/internals/features/tenants/tenant/model"
	userModel "gerejaku_backend/internals/features/users/auth/model"
	helper "gerejaku_backend/internals/helpers"
)

type TenantController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTenantController(db *gorm.DB, validate *validator.Validate) *TenantController {
	if validate == nil {
		validate = validator.New()
	}
	return &TenantController{DB: db, Validate: validate}
}

func isUnique(err error) bool {
	var e *pq.Error
	if errors.As(err, &e) {
		return e.Code == "23505"
	}
	lo := strings.ToLower(err.Error())
	return strings.Contains(lo, "duplicate") || strings.Contains(lo, "unique")
}

// =====================================================
// REGISTER: POST /api/public/tenants/register
// Buat tenant baru (tier trial) + akun admin pertama.
// =====================================================
func (ctl *TenantController) Register(c *fiber.Ctx) error {
	var req dto.RegisterTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	trialDays := configs.GetEnvInt("TRIAL_DAYS", 14)
	now := time.Now()
	trialEnd := now.AddDate(0, 0, trialDays)

	tenant := model.TenantModel{
		TenantName:          req.TenantName,
		TenantSlug:          strings.ToLower(strings.TrimSpace(req.TenantSlug)),
		TenantTier:          constants.TierTrial,
		TenantTrialStartsAt: &now,
		TenantTrialEndsAt:   &trialEnd,
		TenantContactEmail:  &req.ContactEmail,
	}
	if req.ContactPhone != "" {
		tenant.TenantContactPhone = &req.ContactPhone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			if isUnique(err) {
				return fiber.NewError(fiber.StatusConflict, "Slug tenant sudah dipakai")
			}
			return err
		}
		admin := userModel.UserModel{
			UserTenantID: &tenant.TenantID,
			UserFullName: req.AdminFullName,
			UserEmail:    strings.ToLower(req.AdminEmail),
			UserPassword: string(hash),
			UserRole:     constants.RoleAdmin,
		}
		if err := tx.Create(&admin).Error; err != nil {
			if isUnique(err) {
				return fiber.NewError(fiber.StatusConflict, "Email admin sudah terdaftar")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	log.Printf("[TENANT] registrasi baru: %s (%s), trial sampai %s", tenant.TenantName, tenant.TenantID, trialEnd.Format("2006-01-02"))
	return helper.JsonCreated(c, "Tenant berhasil didaftarkan", dto.FromTenantModel(tenant))
}

// =====================================================
// GET /api/a/tenant
// =====================================================
func (ctl *TenantController) GetProfile(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var t model.TenantModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("tenant_id = ?", tenantID).
		Take(&t).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Tenant tidak ditemukan")
	}
	return helper.JsonOK(c, "OK", dto.FromTenantModel(t))
}

// =====================================================
// PATCH /api/a/tenant
// =====================================================
func (ctl *TenantController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]any{}
	if req.TenantName != nil {
		updates["tenant_name"] = *req.TenantName
	}
	if req.ContactEmail != nil {
		updates["tenant_contact_email"] = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		updates["tenant_contact_phone"] = *req.ContactPhone
	}
	if req.KioskModeEnabled != nil {
		updates["tenant_kiosk_mode_enabled"] = *req.KioskModeEnabled
	}
	if req.KioskTimeoutSeconds != nil {
		updates["tenant_kiosk_timeout_seconds"] = *req.KioskTimeoutSeconds
	}
	if req.Settings != nil {
		updates["tenant_settings"] = *req.Settings
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.TenantModel{}).
		Where("tenant_id = ?", tenantID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan tenant")
	}

	var t model.TenantModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("tenant_id = ?", tenantID).
		Take(&t).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Tenant tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Tenant diperbarui", dto.FromTenantModel(t))
}

// =====================================================
// SET TIER: PATCH /api/o/tenants/:id/tier (owner global)
// Perubahan tier datang dari luar (billing event / admin
// platform): policy evaluator tidak pernah memanggil provider.
// =====================================================
func (ctl *TenantController) SetTier(c *fiber.Ctx) error {
	tenantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "tenant id tidak valid")
	}

	var req dto.SetTierRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if !req.Tier.Valid() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tier tidak dikenal")
	}

	updates := map[string]any{"tenant_tier": req.Tier}
	if req.MaxMembers != nil {
		updates["tenant_max_members"] = *req.MaxMembers
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&model.TenantModel{}).
		Where("tenant_id = ?", tenantID).
		Updates(updates)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah tier")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Tenant tidak ditemukan")
	}

	log.Printf("[TENANT] tier tenant=%s diubah ke %s", tenantID, req.Tier)
	return helper.JsonUpdated(c, "Tier tenant diubah", fiber.Map{"tenant_id": tenantID, "tier": req.Tier})
}

// =====================================================
// FACTORY RESET: POST /api/a/tenant/factory-reset
// Hapus SEMUA data tenant-scoped dalam satu transaksi;
// baris tenant dan akun admin tetap hidup.
// =====================================================
func (ctl *TenantController) FactoryReset(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.FactoryResetRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	var t model.TenantModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("tenant_id = ?", tenantID).
		Take(&t).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Tenant tidak ditemukan")
	}
	if req.ConfirmSlug != t.TenantSlug {
		return helper.JsonError(c, fiber.StatusBadRequest, "Konfirmasi slug tidak cocok")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		// hard delete: factory reset memang menghapus fisik
		if err := tx.Unscoped().Where("attendance_tenant_id = ?", tenantID).Delete(&checkinModel.AttendanceRecordModel{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("follow_up_tenant_id = ?", tenantID).Delete(&followupModel.FollowUpModel{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("visitor_tenant_id = ?", tenantID).Delete(&visitorModel.VisitorModel{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("member_tenant_id = ?", tenantID).Delete(&memberModel.MemberModel{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("gathering_tenant_id = ?", tenantID).Delete(&gatheringModel.GatheringModel{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("payment_tenant_id = ?", tenantID).Delete(&billingModel.SubscriptionPaymentModel{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("[TENANT] factory reset tenant=%s gagal: %v", tenantID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Factory reset gagal, tidak ada data yang dihapus")
	}

	log.Printf("[TENANT] factory reset tenant=%s selesai", tenantID)
	return helper.JsonOK(c, "Semua data tenant dihapus", fiber.Map{"tenant_id": tenantID})
}
