// internals/features/members/member/controller/member_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/members/member/dto"
	"gerejaku_backend/internals/features/members/member/model"
	memberservice "gerejaku_backend/internals/features/members/member/service"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	helper "gerejaku_backend/internals/helpers"
)

type MemberController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Policy   *policyservice.PolicyService
}

func NewMemberController(db *gorm.DB, validate *validator.Validate, policy *policyservice.PolicyService) *MemberController {
	return &MemberController{DB: db, Validate: validate, Policy: policy}
}

func isUnique(err error) bool {
	var pqe *pq.Error
	if errors.As(err, &pqe) && string(pqe.Code) == "23505" {
		return true
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate key")
}

// =============================
// CREATE
// =============================

// POST /api/a/members
func (ctl *MemberController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.AgeGroup == string(model.AgeGroupAdult) && (req.Phone == nil || strings.TrimSpace(*req.Phone) == "") {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nomor telepon wajib untuk jemaat dewasa")
	}

	decision := ctl.Policy.AuthorizeAddMember(c.Context(), tenantID)
	if !decision.Allowed {
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			"Batas jemaat paket Anda sudah tercapai. Silakan upgrade paket.",
			fiber.Map{"reason": decision.Reason, "limit": decision.Limit})
	}

	m := req.ToModel(tenantID)
	if err := ctl.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		log.Printf("[MEMBER] gagal membuat jemaat: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat data jemaat")
	}

	// Kepala keluarga memakai family_group_id = id-nya sendiri
	if m.MemberIsFamilyHead && m.MemberFamilyGroupID == nil {
		if err := ctl.DB.WithContext(c.Context()).
			Model(&model.MemberModel{}).
			Where("member_id = ?", m.MemberID).
			Update("member_family_group_id", m.MemberID).Error; err != nil {
			log.Printf("[MEMBER] gagal set family group kepala keluarga: %v", err)
		} else {
			gid := m.MemberID
			m.MemberFamilyGroupID = &gid
		}
	}

	return helper.JsonCreated(c, "Jemaat berhasil ditambahkan", dto.FromMemberModel(m))
}

// =============================
// LIST & SEARCH
// =============================

// GET /api/a/members?search=&age_group=&is_current=&page=&per_page=
func (ctl *MemberController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).
		Model(&model.MemberModel{}).
		Where("member_tenant_id = ?", tenantID)

	if s := strings.TrimSpace(c.Query("search")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(member_first_name) LIKE ? OR LOWER(member_last_name) LIKE ?", like, like)
	}
	if ag := c.Query("age_group"); ag != "" {
		q = q.Where("member_age_group = ?", ag)
	}
	switch c.Query("is_current") {
	case "true":
		q = q.Where("member_is_current = TRUE")
	case "false":
		q = q.Where("member_is_current = FALSE")
	default:
		// default hanya jemaat aktif
		q = q.Where("member_is_current = TRUE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data jemaat")
	}

	var rows []model.MemberModel
	if err := q.Order("member_first_name ASC, member_last_name ASC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data jemaat")
	}

	return helper.JsonList(c, "Daftar jemaat", dto.ToMemberResponseList(rows),
		helper.BuildPaginationFromPage(p.Page, p.PerPage, total))
}

// GET /api/a/members/search-candidates?q=
// Lookup manual saat check-in: hanya mengembalikan kandidat, tidak pernah
// otomatis memilih satu.
func (ctl *MemberController) SearchCandidates(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	term := strings.TrimSpace(c.Query("q"))
	if len(term) < 2 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kata kunci minimal 2 karakter")
	}

	like := "%" + strings.ToLower(term) + "%"
	var rows []model.MemberModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("member_tenant_id = ? AND member_is_current = TRUE", tenantID).
		Where("LOWER(member_first_name) LIKE ? OR LOWER(member_last_name) LIKE ? OR LOWER(member_first_name || ' ' || member_last_name) LIKE ?",
			like, like, like).
		Order("member_first_name ASC").
		Limit(20).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mencari jemaat")
	}

	return helper.JsonOK(c, "Kandidat jemaat", dto.ToMemberResponseList(rows))
}

// =============================
// DETAIL, UPDATE, RETIRE
// =============================

// GET /api/a/members/:id
func (ctl *MemberController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID jemaat tidak valid")
	}

	var m model.MemberModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("member_id = ? AND member_tenant_id = ?", memberID, tenantID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Jemaat tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data jemaat")
	}
	return helper.JsonOK(c, "Detail jemaat", dto.FromMemberModel(m))
}

// PATCH /api/a/members/:id
func (ctl *MemberController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID jemaat tidak valid")
	}

	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var m model.MemberModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("member_id = ? AND member_tenant_id = ?", memberID, tenantID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Jemaat tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data jemaat")
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["member_first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["member_last_name"] = *req.LastName
	}
	if req.Gender != nil {
		updates["member_gender"] = *req.Gender
	}
	if req.AgeGroup != nil {
		updates["member_age_group"] = *req.AgeGroup
	}
	if req.Phone != nil {
		updates["member_phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["member_email"] = *req.Email
	}
	if req.FamilyGroupID != nil {
		updates["member_family_group_id"] = *req.FamilyGroupID
	}
	if req.Relationship != nil {
		updates["member_relationship"] = *req.Relationship
	}
	if req.IsCurrent != nil {
		updates["member_is_current"] = *req.IsCurrent
	}

	// Telepon wajib untuk dewasa, termasuk saat transisi age_group
	finalAge := string(m.MemberAgeGroup)
	if req.AgeGroup != nil {
		finalAge = *req.AgeGroup
	}
	finalPhone := m.MemberPhone
	if req.Phone != nil {
		finalPhone = req.Phone
	}
	if finalAge == string(model.AgeGroupAdult) && (finalPhone == nil || strings.TrimSpace(*finalPhone) == "") {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nomor telepon wajib untuk jemaat dewasa")
	}

	if len(updates) == 0 {
		return helper.JsonOK(c, "Tidak ada perubahan", dto.FromMemberModel(m))
	}
	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.MemberModel{}).
		Where("member_id = ?", m.MemberID).
		Updates(updates).Error; err != nil {
		log.Printf("[MEMBER] gagal memperbarui jemaat: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui data jemaat")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Where("member_id = ?", m.MemberID).
		First(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data jemaat")
	}
	return helper.JsonUpdated(c, "Jemaat berhasil diperbarui", dto.FromMemberModel(m))
}

// DELETE /api/a/members/:id
// Retire, bukan hapus: riwayat kehadiran harus tetap utuh.
func (ctl *MemberController) Retire(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID jemaat tidak valid")
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&model.MemberModel{}).
		Where("member_id = ? AND member_tenant_id = ?", memberID, tenantID).
		Update("member_is_current", false)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan jemaat")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Jemaat tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Jemaat dinonaktifkan", fiber.Map{"member_id": memberID})
}

// =============================
// BIOMETRIC ENROLLMENT
// =============================

// PUT /api/a/members/:id/biometric
// Enroll ulang menimpa token lama. Satu token hanya boleh dipegang satu
// jemaat per tenant; index unik di DB jadi penjaga terakhir.
func (ctl *MemberController) EnrollBiometric(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID jemaat tidak valid")
	}

	var req dto.EnrollBiometricRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var m model.MemberModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("member_id = ? AND member_tenant_id = ?", memberID, tenantID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Jemaat tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data jemaat")
	}

	var holder model.MemberModel
	err = ctl.DB.WithContext(c.Context()).
		Where("member_tenant_id = ? AND member_biometric_token = ? AND member_id <> ?",
			tenantID, req.BiometricToken, memberID).
		First(&holder).Error
	if err == nil {
		return helper.JsonError(c, fiber.StatusConflict, "Sidik jari sudah terdaftar pada jemaat lain")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa sidik jari")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&model.MemberModel{}).
		Where("member_id = ?", memberID).
		Update("member_biometric_token", req.BiometricToken).Error; err != nil {
		if isUnique(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Sidik jari sudah terdaftar pada jemaat lain")
		}
		log.Printf("[MEMBER] gagal enroll biometrik: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan data biometrik")
	}

	return helper.JsonUpdated(c, "Biometrik berhasil didaftarkan", fiber.Map{
		"member_id":     memberID,
		"has_biometric": true,
	})
}

// =============================
// BULK IMPORT (Excel)
// =============================

// POST /api/a/members/import (multipart, field "file")
func (ctl *MemberController) ImportExcel(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	decision := ctl.Policy.Authorize(c.Context(), tenantID, constants.CapabilityBulkImport, 0)
	if !decision.Allowed {
		return helper.JsonError(c, fiber.StatusForbidden, "Paket Anda tidak mendukung impor massal. Silakan upgrade paket.")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File Excel wajib dilampirkan pada field 'file'")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gagal membuka file")
	}
	defer f.Close()

	rows, rowErrs, err := memberservice.ParseMemberWorkbook(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File Excel tidak dapat dibaca")
	}

	imported := 0
	skipped := make([]memberservice.ImportRowError, 0, len(rowErrs))
	skipped = append(skipped, rowErrs...)

	for _, row := range rows {
		addDecision := ctl.Policy.AuthorizeAddMember(c.Context(), tenantID)
		if !addDecision.Allowed {
			skipped = append(skipped, memberservice.ImportRowError{
				RowNumber: row.RowNumber,
				Message:   "Batas jemaat paket sudah tercapai",
			})
			continue
		}

		m := model.MemberModel{
			MemberTenantID:     tenantID,
			MemberFirstName:    row.FirstName,
			MemberLastName:     row.LastName,
			MemberGender:       model.Gender(row.Gender),
			MemberAgeGroup:     model.AgeGroup(row.AgeGroup),
			MemberPhone:        row.Phone,
			MemberEmail:        row.Email,
			MemberRelationship: model.RelationshipOther,
			MemberIsCurrent:    true,
		}
		if err := ctl.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
			log.Printf("[MEMBER] gagal impor baris %d: %v", row.RowNumber, err)
			skipped = append(skipped, memberservice.ImportRowError{
				RowNumber: row.RowNumber,
				Message:   "Gagal menyimpan baris",
			})
			continue
		}
		imported++
	}

	return helper.JsonOK(c, "Impor jemaat selesai", fiber.Map{
		"imported": imported,
		"skipped":  skipped,
	})
}
