// internals/features/members/visitor/controller/visitor_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	memberDto "gerejaku_backend/internals/features/members/member/dto"
	memberModel "gerejaku_backend/internals/features/members/member/model"
	"gerejaku_backend/internals/features/members/visitor/dto"
	"gerejaku_backend/internals/features/members/visitor/model"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	helper "gerejaku_backend/internals/helpers"
)

type VisitorController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Policy   *policyservice.PolicyService
}

func NewVisitorController(db *gorm.DB, validate *validator.Validate, policy *policyservice.PolicyService) *VisitorController {
	return &VisitorController{DB: db, Validate: validate, Policy: policy}
}

// POST /api/a/visitors
func (ctl *VisitorController) Create(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateVisitorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	v := req.ToModel(tenantID)
	if err := ctl.DB.WithContext(c.Context()).Create(&v).Error; err != nil {
		log.Printf("[VISITOR] gagal membuat pengunjung: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan data pengunjung")
	}
	return helper.JsonCreated(c, "Pengunjung berhasil dicatat", dto.FromVisitorModel(v))
}

// GET /api/a/visitors?follow_up_status=&page=&per_page=
func (ctl *VisitorController) List(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).
		Model(&model.VisitorModel{}).
		Where("visitor_tenant_id = ?", tenantID)

	if st := c.Query("follow_up_status"); st != "" {
		q = q.Where("visitor_follow_up_status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengunjung")
	}

	var rows []model.VisitorModel
	if err := q.Order("visitor_created_at DESC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengunjung")
	}

	return helper.JsonList(c, "Daftar pengunjung", dto.ToVisitorResponseList(rows),
		helper.BuildPaginationFromPage(p.Page, p.PerPage, total))
}

// GET /api/a/visitors/:id
func (ctl *VisitorController) GetByID(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	visitorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pengunjung tidak valid")
	}

	var v model.VisitorModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("visitor_id = ? AND visitor_tenant_id = ?", visitorID, tenantID).
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Pengunjung tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengunjung")
	}
	return helper.JsonOK(c, "Detail pengunjung", dto.FromVisitorModel(v))
}

// PATCH /api/a/visitors/:id
func (ctl *VisitorController) Update(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	visitorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pengunjung tidak valid")
	}

	var req dto.UpdateVisitorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["visitor_first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["visitor_last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["visitor_phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["visitor_email"] = *req.Email
	}
	if req.HowHeard != nil {
		updates["visitor_how_heard"] = *req.HowHeard
	}
	if req.PrayerPoints != nil {
		updates["visitor_prayer_points"] = *req.PrayerPoints
	}
	if req.FollowUpStatus != nil {
		updates["visitor_follow_up_status"] = *req.FollowUpStatus
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&model.VisitorModel{}).
		Where("visitor_id = ? AND visitor_tenant_id = ?", visitorID, tenantID).
		Updates(updates)
	if res.Error != nil {
		log.Printf("[VISITOR] gagal memperbarui pengunjung: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui data pengunjung")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Pengunjung tidak ditemukan")
	}

	var v model.VisitorModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("visitor_id = ?", visitorID).First(&v).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengunjung")
	}
	return helper.JsonUpdated(c, "Pengunjung berhasil diperbarui", dto.FromVisitorModel(v))
}

// POST /api/a/visitors/:id/promote
// Promosi pengunjung jadi jemaat: tunduk pada limit paket seperti
// penambahan jemaat biasa, lalu pengunjung ditandai status member.
func (ctl *VisitorController) Promote(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	visitorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID pengunjung tidak valid")
	}

	var req dto.PromoteVisitorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var v model.VisitorModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("visitor_id = ? AND visitor_tenant_id = ?", visitorID, tenantID).
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Pengunjung tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengunjung")
	}
	if v.VisitorFollowUpStatus == model.VisitorFollowUpMember {
		return helper.JsonError(c, fiber.StatusConflict, "Pengunjung sudah menjadi jemaat")
	}

	decision := ctl.Policy.AuthorizeAddMember(c.Context(), tenantID)
	if !decision.Allowed {
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			"Batas jemaat paket Anda sudah tercapai. Silakan upgrade paket.",
			fiber.Map{"reason": decision.Reason, "limit": decision.Limit})
	}

	phone := v.VisitorPhone
	if req.Phone != nil {
		phone = req.Phone
	}
	if v.VisitorAgeGroup == memberModel.AgeGroupAdult && (phone == nil || strings.TrimSpace(*phone) == "") {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nomor telepon wajib untuk jemaat dewasa")
	}

	m := memberModel.MemberModel{
		MemberTenantID:     tenantID,
		MemberFirstName:    v.VisitorFirstName,
		MemberLastName:     v.VisitorLastName,
		MemberGender:       v.VisitorGender,
		MemberAgeGroup:     v.VisitorAgeGroup,
		MemberPhone:        phone,
		MemberEmail:        v.VisitorEmail,
		MemberRelationship: memberModel.RelationshipOther,
		MemberIsCurrent:    true,
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return tx.Model(&model.VisitorModel{}).
			Where("visitor_id = ?", v.VisitorID).
			Updates(map[string]interface{}{
				"visitor_follow_up_status": model.VisitorFollowUpMember,
				"visitor_member_id":        m.MemberID,
			}).Error
	})
	if err != nil {
		log.Printf("[VISITOR] gagal promosi pengunjung %s: %v", v.VisitorID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mempromosikan pengunjung")
	}

	v.VisitorFollowUpStatus = model.VisitorFollowUpMember
	v.VisitorMemberID = &m.MemberID

	return helper.JsonCreated(c, "Pengunjung berhasil dipromosikan menjadi jemaat", fiber.Map{
		"visitor": dto.FromVisitorModel(v),
		"member":  memberDto.FromMemberModel(m),
	})
}
