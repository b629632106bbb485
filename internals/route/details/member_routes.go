package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	memberController "gerejaku_backend/internals/features/members/member/controller"
	visitorController "gerejaku_backend/internals/features/members/visitor/controller"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	featuresMiddleware "gerejaku_backend/internals/middlewares/features"
)

// MemberRoutes: CRUD jemaat + biometrik + impor massal (admin);
// pencarian kandidat check-in boleh oleh staf, jadi guard admin dipasang
// per-route, bukan di prefix.
func MemberRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate, policy *policyservice.PolicyService) {
	ctl := memberController.NewMemberController(db, validate, policy)
	adm := featuresMiddleware.IsTenantAdmin()

	// jalur staf; didaftarkan duluan supaya tidak tertangkap /members/:id
	base.Get("/members/search-candidates", ctl.SearchCandidates)

	base.Post("/members", adm, ctl.Create)
	base.Get("/members", adm, ctl.List)
	base.Post("/members/import", adm, ctl.ImportExcel)
	base.Get("/members/:id", adm, ctl.GetByID)
	base.Patch("/members/:id", adm, ctl.Update)
	base.Delete("/members/:id", adm, ctl.Retire)
	base.Put("/members/:id/biometric", adm, ctl.EnrollBiometric)
}

// VisitorRoutes: intake pengunjung boleh staf; kurasi & promosi admin.
func VisitorRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate, policy *policyservice.PolicyService) {
	ctl := visitorController.NewVisitorController(db, validate, policy)
	adm := featuresMiddleware.IsTenantAdmin()

	base.Post("/visitors", ctl.Create)
	base.Get("/visitors", ctl.List)
	base.Get("/visitors/:id", ctl.GetByID)

	base.Patch("/visitors/:id", adm, ctl.Update)
	base.Post("/visitors/:id/promote", adm, ctl.Promote)
}
