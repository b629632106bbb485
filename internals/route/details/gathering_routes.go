package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	gatheringController "gerejaku_backend/internals/features/gatherings/gathering/controller"
	gatheringService "gerejaku_backend/internals/features/gatherings/gathering/service"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	"gerejaku_backend/internals/middlewares"
	featuresMiddleware "gerejaku_backend/internals/middlewares/features"
)

// GatheringRoutes: CRUD acara + pengelolaan external check-in (admin).
func GatheringRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate,
	policy *policyservice.PolicyService, external *gatheringService.ExternalCheckinService) {

	ctl := gatheringController.NewGatheringController(db, validate, policy, external)

	g := base.Group("/gatherings", featuresMiddleware.IsTenantAdmin())
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)

	g.Post("/:id/external-checkin/enable", ctl.EnableExternal)
	g.Post("/:id/external-checkin/disable", ctl.DisableExternal)
	g.Get("/:id/external-checkin/qr", ctl.ExternalQR)
}

// ExternalCheckinPublicRoutes: jalur publik dari link/QR, tanpa login.
// Rate limit per token supaya PIN tidak bisa di-brute-force.
func ExternalCheckinPublicRoutes(public fiber.Router, validate *validator.Validate,
	external *gatheringService.ExternalCheckinService) {

	ctl := gatheringController.NewExternalCheckinPublicController(validate, external)

	public.Get("/checkin/:token", middlewares.ExternalCheckinRateLimiter(), ctl.Info)
	public.Post("/checkin/:token/submit", middlewares.ExternalCheckinRateLimiter(), ctl.Submit)
}
