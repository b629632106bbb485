// internals/features/gatherings/gathering/controller/external_checkin_public_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	checkinService "gerejaku_backend/internals/features/attendance/checkin/service"
	"gerejaku_backend/internals/features/gatherings/gathering/service"
	helper "gerejaku_backend/internals/helpers"
)

// ExternalCheckinPublicController: jalur tanpa login. Semua kegagalan
// (token tak dikenal, disabled, PIN salah, member tak ketemu) dibalas
// satu pesan generik yang sama.
type ExternalCheckinPublicController struct {
	Validate *validator.Validate
	External *service.ExternalCheckinService
}

func NewExternalCheckinPublicController(validate *validator.Validate, external *service.ExternalCheckinService) *ExternalCheckinPublicController {
	return &ExternalCheckinPublicController{Validate: validate, External: external}
}

type externalSubmitRequest struct {
	PIN      string    `json:"pin" validate:"required,len=6,numeric"`
	MemberID uuid.UUID `json:"member_id" validate:"required"`
}

// GET /api/public/checkin/:token
func (ctl *ExternalCheckinPublicController) Info(c *fiber.Ctx) error {
	info, err := ctl.External.PublicInfo(c.Context(), c.Params("token"))
	if err != nil {
		if errors.Is(err, service.ErrCheckinUnavailable) {
			return helper.JsonError(c, fiber.StatusNotFound, service.ErrCheckinUnavailable.Error())
		}
		log.Printf("[EXTCHECKIN] gagal memuat info publik: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan, coba lagi")
	}
	return helper.JsonOK(c, "Info check-in", info)
}

// POST /api/public/checkin/:token/submit
func (ctl *ExternalCheckinPublicController) Submit(c *fiber.Ctx) error {
	var req externalSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "PIN dan member_id wajib diisi")
	}

	result, err := ctl.External.Submit(c.Context(), c.Params("token"), req.PIN, req.MemberID)
	if err != nil {
		if errors.Is(err, service.ErrCheckinUnavailable) {
			return helper.JsonError(c, fiber.StatusForbidden, service.ErrCheckinUnavailable.Error())
		}
		log.Printf("[EXTCHECKIN] gagal submit: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan, coba lagi")
	}

	if result.Outcome == checkinService.OutcomeDuplicate {
		return helper.JsonOK(c, "Anda sudah check-in hari ini", fiber.Map{
			"outcome":       result.Outcome,
			"person_name":   result.PersonName,
			"checked_in_at": result.ExistingCheckedInAt,
		})
	}
	return helper.JsonCreated(c, "Check-in berhasil", fiber.Map{
		"outcome":     result.Outcome,
		"person_name": result.PersonName,
	})
}
