package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	checkinController "gerejaku_backend/internals/features/attendance/checkin/controller"
	checkinService "gerejaku_backend/internals/features/attendance/checkin/service"
	followupController "gerejaku_backend/internals/features/attendance/followup/controller"
	followupService "gerejaku_backend/internals/features/attendance/followup/service"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	featuresMiddleware "gerejaku_backend/internals/middlewares/features"
)

// AttendanceRoutes: check-in harian & query kehadiran boleh staf;
// koreksi historis dan hapus salah input admin saja (guard per-route
// karena prefix /attendance dipakai dua level akses).
func AttendanceRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate, svc *checkinService.CheckinService) {
	ctl := checkinController.NewCheckinController(db, validate, svc)
	adm := featuresMiddleware.IsTenantAdmin()

	base.Post("/checkins", ctl.CheckIn)
	base.Post("/checkins/family", ctl.FamilyCheckIn)
	base.Post("/checkins/resolve", ctl.ResolveBiometric)

	base.Get("/attendance", ctl.ListAttendance)
	base.Get("/attendance/today", ctl.TodaySummary)

	base.Post("/attendance/corrections", adm, ctl.CreateCorrection)
	base.Delete("/attendance/:id", adm, ctl.DeleteAttendance)
}

// FollowUpRoutes: daftar butuh follow-up, catat kontak, scan on-demand.
func FollowUpRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate,
	policy *policyservice.PolicyService, svc *followupService.FollowUpService) {

	ctl := followupController.NewFollowUpController(db, validate, policy, svc)

	g := base.Group("/followups", featuresMiddleware.IsTenantAdmin())
	g.Get("/", ctl.ListNeedingFollowUp)
	g.Post("/scan", ctl.ScanNow)
	g.Post("/:memberId/contact", ctl.RecordContact)
}
