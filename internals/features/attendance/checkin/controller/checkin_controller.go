// internals/features/attendance/checkin/controller/checkin_controller.go
package controller

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/features/attendance/checkin/dto"
	"gerejaku_backend/internals/features/attendance/checkin/model"
	"gerejaku_backend/internals/features/attendance/checkin/service"
	helper "gerejaku_backend/internals/helpers"
	"gerejaku_backend/internals/helpers/dbtime"
)

type CheckinController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Service  *service.CheckinService
}

func NewCheckinController(db *gorm.DB, validate *validator.Validate, svc *service.CheckinService) *CheckinController {
	return &CheckinController{DB: db, Validate: validate, Service: svc}
}

// respondCheckIn memetakan outcome engine ke status HTTP:
// accepted=201, duplicate=200 (bentuk berbeda), rejected=4xx per alasan.
func respondCheckIn(c *fiber.Ctx, result *service.CheckInResult) error {
	switch result.Outcome {
	case service.OutcomeAccepted:
		return helper.JsonCreated(c, "Check-in berhasil", result)
	case service.OutcomeDuplicate:
		return helper.JsonOK(c, "Sudah check-in", fiber.Map{
			"outcome":               result.Outcome,
			"person_name":           result.PersonName,
			"existing_checked_in_at": result.ExistingCheckedInAt,
			"message":               result.Message,
		})
	default:
		return helper.ErrorWithDetails(c, rejectStatus(result.RejectReason), result.Message, fiber.Map{
			"outcome":       result.Outcome,
			"reject_reason": result.RejectReason,
			"denied_limit":  result.DeniedLimit,
		})
	}
}

func rejectStatus(reason service.RejectReason) int {
	switch reason {
	case service.RejectPolicyDenied:
		return fiber.StatusForbidden
	case service.RejectGatheringNotFound, service.RejectMemberNotFound:
		return fiber.StatusNotFound
	case service.RejectGatheringInactive:
		return fiber.StatusConflict
	default: // malformed_person, invalid_method
		return fiber.StatusBadRequest
	}
}

// POST /api/a/checkins
func (ctl *CheckinController) CheckIn(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.NewVisitor != nil {
		if err := ctl.Validate.Struct(req.NewVisitor); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	result, err := ctl.Service.CheckIn(c.Context(), req.ToInput(tenantID))
	if err != nil {
		log.Printf("[CHECKIN] gagal memproses check-in: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses check-in")
	}
	return respondCheckIn(c, result)
}

// POST /api/a/checkins/family
func (ctl *CheckinController) FamilyCheckIn(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.FamilyCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := ctl.Service.FamilyCheckIn(c.Context(), service.FamilyCheckInInput{
		TenantID:     tenantID,
		GatheringID:  req.GatheringID,
		HeadMemberID: req.HeadMemberID,
		ChildIDs:     req.ChildIDs,
	})
	if err != nil {
		log.Printf("[CHECKIN] gagal family check-in: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses check-in keluarga")
	}

	if result.Outcome == service.OutcomeRejected {
		return helper.ErrorWithDetails(c, rejectStatus(result.RejectReason), result.Message, fiber.Map{
			"outcome":       result.Outcome,
			"reject_reason": result.RejectReason,
			"denied_limit":  result.DeniedLimit,
		})
	}
	return helper.JsonCreated(c, "Check-in keluarga selesai", result)
}

// POST /api/a/checkins/resolve
// Resolusi sidik jari: identified / unidentified / invalid. Unidentified
// bukan error — UI lanjut ke pencarian manual.
func (ctl *CheckinController) ResolveBiometric(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.ResolveBiometricRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	resolution, err := ctl.Service.ResolveBiometric(c.Context(), tenantID, req.BiometricToken)
	if err != nil {
		log.Printf("[CHECKIN] gagal resolve biometrik: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses identifikasi")
	}
	return helper.JsonOK(c, "Hasil identifikasi", resolution)
}

// POST /api/a/attendance/corrections
// Entri historis: tanggal eksplisit, hanya admin (dijaga di route), dan
// tetap melewati policy + duplicate check yang sama dengan check-in live.
func (ctl *CheckinController) CreateCorrection(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CorrectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, dbtime.Location())
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}
	if date.After(dbtime.Today()) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tanggal koreksi tidak boleh di masa depan")
	}

	result, err := ctl.Service.CheckIn(c.Context(), service.CheckInInput{
		TenantID:    tenantID,
		GatheringID: req.GatheringID,
		Person:      service.PersonReference{MemberID: &req.MemberID},
		Method:      model.MethodManual,
		Date:        &date,
	})
	if err != nil {
		log.Printf("[CHECKIN] gagal koreksi historis: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan koreksi kehadiran")
	}
	return respondCheckIn(c, result)
}

// =============================
// Attendance queries
// =============================

// GET /api/a/attendance?gathering_id=&date=&member_id=&page=&per_page=
func (ctl *CheckinController) ListAttendance(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 50, 200)

	q := ctl.DB.WithContext(c.Context()).
		Model(&model.AttendanceRecordModel{}).
		Where("attendance_tenant_id = ?", tenantID)

	if gid := c.Query("gathering_id"); gid != "" {
		id, err := uuid.Parse(gid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "gathering_id tidak valid")
		}
		q = q.Where("attendance_gathering_id = ?", id)
	}
	if mid := c.Query("member_id"); mid != "" {
		id, err := uuid.Parse(mid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "member_id tidak valid")
		}
		q = q.Where("attendance_member_id = ?", id)
	}
	if d := c.Query("date"); d != "" {
		day, err := time.ParseInLocation("2006-01-02", d, dbtime.Location())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
		}
		q = q.Where("attendance_date = ?", dbtime.DateOnly(day))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kehadiran")
	}

	var rows []model.AttendanceRecordModel
	if err := q.Order("attendance_checked_in_at DESC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kehadiran")
	}

	return helper.JsonList(c, "Daftar kehadiran", dto.ToAttendanceRecordList(rows),
		helper.BuildPaginationFromPage(p.Page, p.PerPage, total))
}

// GET /api/a/attendance/today
func (ctl *CheckinController) TodaySummary(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	today := dbtime.Today()

	var rows []model.AttendanceRecordModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("attendance_tenant_id = ? AND attendance_date = ?", tenantID, today).
		Order("attendance_checked_in_at DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kehadiran")
	}

	guests := 0
	for _, r := range rows {
		if r.AttendanceIsGuest {
			guests++
		}
	}

	return helper.JsonOK(c, "Kehadiran hari ini", fiber.Map{
		"date":    today.Format("2006-01-02"),
		"total":   len(rows),
		"guests":  guests,
		"records": dto.ToAttendanceRecordList(rows),
	})
}

// DELETE /api/a/attendance/:id
// Koreksi salah input: hard delete, hanya admin (dijaga di route).
func (ctl *CheckinController) DeleteAttendance(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kehadiran tidak valid")
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("attendance_id = ? AND attendance_tenant_id = ?", attendanceID, tenantID).
		Delete(&model.AttendanceRecordModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus catatan kehadiran")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Catatan kehadiran tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Catatan kehadiran dihapus", fiber.Map{"attendance_id": attendanceID})
}
