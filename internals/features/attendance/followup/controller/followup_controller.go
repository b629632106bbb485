// internals/features/attendance/followup/controller/followup_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/attendance/followup/dto"
	"gerejaku_backend/internals/features/attendance/followup/model"
	"gerejaku_backend/internals/features/attendance/followup/service"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	helper "gerejaku_backend/internals/helpers"
)

type FollowUpController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Policy   *policyservice.PolicyService
	Service  *service.FollowUpService
}

func NewFollowUpController(db *gorm.DB, validate *validator.Validate, policy *policyservice.PolicyService, svc *service.FollowUpService) *FollowUpController {
	return &FollowUpController{DB: db, Validate: validate, Policy: policy, Service: svc}
}

// GET /api/a/followups?page=&per_page=
// Daftar jemaat yang butuh follow-up, paling lama absen duluan.
func (ctl *FollowUpController) ListNeedingFollowUp(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)

	base := ctl.DB.WithContext(c.Context()).
		Model(&model.FollowUpModel{}).
		Where("follow_up_tenant_id = ? AND follow_up_needs_follow_up = TRUE", tenantID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data follow-up")
	}

	var fus []model.FollowUpModel
	if err := base.Order("follow_up_consecutive_absences DESC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&fus).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data follow-up")
	}

	// Member satu halaman diambil dalam satu query IN, bukan per baris.
	memberIDs := make([]uuid.UUID, 0, len(fus))
	for _, fu := range fus {
		memberIDs = append(memberIDs, fu.FollowUpMemberID)
	}

	var members []memberModel.MemberModel
	if len(memberIDs) > 0 {
		if err := ctl.DB.WithContext(c.Context()).
			Where("member_tenant_id = ? AND member_id IN ?", tenantID, memberIDs).
			Find(&members).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data follow-up")
		}
	}
	byID := make(map[uuid.UUID]memberModel.MemberModel, len(members))
	for _, m := range members {
		byID[m.MemberID] = m
	}

	entries := make([]dto.FollowUpEntryResponse, 0, len(fus))
	for _, fu := range fus {
		m, ok := byID[fu.FollowUpMemberID]
		if !ok {
			continue // member sudah tidak ada, lewati
		}
		entries = append(entries, dto.BuildFollowUpEntry(fu, m))
	}

	return helper.JsonList(c, "Daftar jemaat butuh follow-up", entries,
		helper.BuildPaginationFromPage(p.Page, p.PerPage, total))
}

// POST /api/a/followups/:memberId/contact
func (ctl *FollowUpController) RecordContact(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID jemaat tidak valid")
	}

	var req dto.RecordContactRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	method := model.ContactMethod(req.Method)
	if !method.Valid() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Metode kontak tidak dikenal")
	}

	// Pengiriman otomatis tunduk pada capability paket; kontak manual
	// (call) selalu boleh dicatat.
	if req.Message != "" {
		var needed constants.Capability
		switch method {
		case model.ContactSMS:
			needed = constants.CapabilitySendSMS
		case model.ContactEmail:
			needed = constants.CapabilitySendEmail
		}
		if needed != "" {
			decision := ctl.Policy.Authorize(c.Context(), tenantID, needed, 0)
			if !decision.Allowed {
				return helper.JsonError(c, fiber.StatusForbidden, "Paket Anda tidak mendukung pengiriman pesan ini. Silakan upgrade paket.")
			}
		}
	}

	fu, err := ctl.Service.RecordContact(c.Context(), tenantID, memberID, method, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Jemaat tidak ditemukan")
		}
		log.Printf("[FOLLOWUP] gagal mencatat kontak: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mencatat kontak follow-up")
	}
	return helper.JsonUpdated(c, "Kontak follow-up tercatat", fu)
}

// POST /api/a/followups/scan
// Scan on-demand untuk tenant sendiri (di luar jadwal scheduler).
func (ctl *FollowUpController) ScanNow(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	summary, err := ctl.Service.ScanTenant(c.Context(), tenantID)
	if err != nil {
		log.Printf("[FOLLOWUP] gagal scan tenant %s: %v", tenantID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menjalankan scan absensi")
	}
	return helper.JsonOK(c, "Scan absensi selesai", summary)
}
