package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tenantController "gerejaku_backend/internals/features/tenants/tenant/controller"
	featuresMiddleware "gerejaku_backend/internals/middlewares/features"
)

// TenantPublicRoutes: pendaftaran gereja baru (self-service trial).
func TenantPublicRoutes(public fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := tenantController.NewTenantController(db, validate)
	public.Post("/tenants/register", ctl.Register)
}

// TenantAdminRoutes: profil & lifecycle tenant sendiri.
func TenantAdminRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := tenantController.NewTenantController(db, validate)

	g := base.Group("/tenant", featuresMiddleware.IsTenantAdmin())
	g.Get("/", ctl.GetProfile)
	g.Patch("/", ctl.Update)
	g.Post("/factory-reset", ctl.FactoryReset)
}

// TenantOwnerRoutes: operasi lintas tenant oleh owner platform.
func TenantOwnerRoutes(owner fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := tenantController.NewTenantController(db, validate)
	owner.Patch("/tenants/:id/tier", ctl.SetTier)
}
