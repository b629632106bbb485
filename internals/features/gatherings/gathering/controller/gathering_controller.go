// internals/features/gatherings/gathering/controller/gathering_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"gerejaku_backend/internals/configs"
	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/gatherings/gathering/dto"
	"gerejaku_backend/internals/features/gatherings/gathering/model"
	"gerejaku_backend/internals/features/gatherings/gathering/service"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	helper "gerejaku_backend/internals/helpers"
)

type GatheringController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Policy   *policyservice.PolicyService
	External *service.ExternalCheckinService
}

func NewGatheringController(db *gorm.DB, validate *validator.Validate, policy *policyservice.PolicyService, external *service.ExternalCheckinService) *GatheringController {
	return &GatheringController{DB: db, Validate: validate, Policy: policy, External: external}
}

// =============================
// CRUD
// =============================

// POST /api/a/gatherings
func (ctl *GatheringController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateGatheringRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	g := req.ToModel(tenantID)
	if err := ctl.DB.WithContext(c.Context()).Create(&g).Error; err != nil {
		log.Printf("[GATHERING] gagal membuat gathering: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat acara")
	}
	return helper.JsonCreated(c, "Acara berhasil dibuat", dto.FromGatheringModel(g))
}

// GET /api/a/gatherings?is_active=&page=&per_page=
func (ctl *GatheringController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).
		Model(&model.GatheringModel{}).
		Where("gathering_tenant_id = ?", tenantID)

	switch c.Query("is_active") {
	case "true":
		q = q.Where("gathering_is_active = TRUE")
	case "false":
		q = q.Where("gathering_is_active = FALSE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data acara")
	}

	var rows []model.GatheringModel
	if err := q.Order("gathering_created_at DESC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data acara")
	}

	return helper.JsonList(c, "Daftar acara", dto.ToGatheringResponseList(rows),
		helper.BuildPaginationFromPage(p.Page, p.PerPage, total))
}

// GET /api/a/gatherings/:id
func (ctl *GatheringController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	g, ferr := ctl.findOwned(c, tenantID)
	if ferr != nil {
		return nil
	}
	return helper.JsonOK(c, "Detail acara", dto.FromGatheringModel(*g))
}

// PATCH /api/a/gatherings/:id
func (ctl *GatheringController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	g, ferr := ctl.findOwned(c, tenantID)
	if ferr != nil {
		return nil
	}

	var req dto.UpdateGatheringRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["gathering_name"] = *req.Name
	}
	if req.Type != nil {
		updates["gathering_type"] = *req.Type
	}
	if req.Location != nil {
		updates["gathering_location"] = *req.Location
	}
	if req.Recurrence != nil {
		updates["gathering_recurrence"] = *req.Recurrence
	}
	if req.StartsAt != nil {
		updates["gathering_starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["gathering_ends_at"] = *req.EndsAt
	}
	if req.IsActive != nil {
		updates["gathering_is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", dto.FromGatheringModel(*g))
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.GatheringModel{}).
		Where("gathering_id = ?", g.GatheringID).
		Updates(updates).Error; err != nil {
		log.Printf("[GATHERING] gagal memperbarui acara: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui acara")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Where("gathering_id = ?", g.GatheringID).First(g).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data acara")
	}
	return helper.JsonUpdated(c, "Acara berhasil diperbarui", dto.FromGatheringModel(*g))
}

// DELETE /api/a/gatherings/:id (soft delete; riwayat kehadiran tetap utuh)
func (ctl *GatheringController) Delete(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	gatheringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID acara tidak valid")
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("gathering_id = ? AND gathering_tenant_id = ?", gatheringID, tenantID).
		Delete(&model.GatheringModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus acara")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Acara tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Acara berhasil dihapus", fiber.Map{"gathering_id": gatheringID})
}

// =============================
// External check-in (admin)
// =============================

// POST /api/a/gatherings/:id/external-checkin/enable
// PIN & URL token hanya dikembalikan SEKALI di sini.
func (ctl *GatheringController) EnableExternal(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	gatheringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID acara tidak valid")
	}

	decision := ctl.Policy.Authorize(c.Context(), tenantID, constants.CapabilityExternalCheckin, 0)
	if !decision.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, "Paket Anda tidak mendukung check-in eksternal. Silakan upgrade paket.")
	}

	g, err := ctl.External.Enable(c.Context(), tenantID, gatheringID)
	if err != nil {
		if errors.Is(err, service.ErrGatheringNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Acara tidak ditemukan")
		}
		log.Printf("[GATHERING] gagal enable external check-in: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengaktifkan check-in eksternal")
	}

	base := strings.TrimRight(configs.GetEnv("PUBLIC_CHECKIN_BASE_URL", "https://checkin.gerejaku.id"), "/")
	return helper.JsonOK(c, "Check-in eksternal aktif", dto.ExternalCheckinCredentials{
		GatheringID: g.GatheringID.String(),
		URLToken:    *g.GatheringExternalURLToken,
		CheckinURL:  base + "/" + *g.GatheringExternalURLToken,
		PIN:         *g.GatheringExternalPIN,
		EnabledAt:   *g.GatheringExternalEnabledAt,
	})
}

// POST /api/a/gatherings/:id/external-checkin/disable
func (ctl *GatheringController) DisableExternal(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	gatheringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID acara tidak valid")
	}

	g, err := ctl.External.Disable(c.Context(), tenantID, gatheringID)
	if err != nil {
		if errors.Is(err, service.ErrGatheringNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Acara tidak ditemukan")
		}
		log.Printf("[GATHERING] gagal disable external check-in: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan check-in eksternal")
	}
	return helper.JsonUpdated(c, "Check-in eksternal dinonaktifkan", dto.FromGatheringModel(*g))
}

// GET /api/a/gatherings/:id/external-checkin/qr
// QR berisi URL publik check-in, dirender PNG.
func (ctl *GatheringController) ExternalQR(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	g, ferr := ctl.findOwned(c, tenantID)
	if ferr != nil {
		return nil
	}
	if !g.GatheringExternalEnabled || g.GatheringExternalURLToken == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Check-in eksternal belum aktif untuk acara ini")
	}

	base := strings.TrimRight(configs.GetEnv("PUBLIC_CHECKIN_BASE_URL", "https://checkin.gerejaku.id"), "/")
	png, err := qrcode.Encode(base+"/"+*g.GatheringExternalURLToken, qrcode.Medium, 256)
	if err != nil {
		log.Printf("[GATHERING] gagal membuat QR: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

var errResponded = errors.New("response sudah ditulis")

// findOwned: ambil gathering milik tenant dari :id. Saat gagal, respons
// error sudah ditulis dan caller cukup return nil.
func (ctl *GatheringController) findOwned(c *fiber.Ctx, tenantID uuid.UUID) (*model.GatheringModel, error) {
	gatheringID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = helper.JsonError(c, fiber.StatusBadRequest, "ID acara tidak valid")
		return nil, errResponded
	}
	var g model.GatheringModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("gathering_id = ? AND gathering_tenant_id = ?", gatheringID, tenantID).
		First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = helper.JsonError(c, fiber.StatusNotFound, "Acara tidak ditemukan")
		} else {
			_ = helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data acara")
		}
		return nil, errResponded
	}
	return &g, nil
}
