package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "gerejaku_backend/internals/features/users/auth/controller"
	"gerejaku_backend/internals/middlewares"
	featuresMiddleware "gerejaku_backend/internals/middlewares/features"
)

// AuthPublicRoutes: login tanpa token, dibatasi rate limiter khusus.
func AuthPublicRoutes(public fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := authController.NewAuthController(db, validate)
	public.Post("/auth/login", middlewares.LoginRateLimiter(), ctl.Login)
}

// AuthUserRoutes: profil diri sendiri.
func AuthUserRoutes(user fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := authController.NewAuthController(db, validate)
	user.Get("/auth/me", ctl.Me)
}

// AuthAdminRoutes: admin tenant mengelola staf.
func AuthAdminRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := authController.NewAuthController(db, validate)

	g := base.Group("/staff", featuresMiddleware.IsTenantAdmin())
	g.Post("/", ctl.CreateStaff)
}
