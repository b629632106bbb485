package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billingController "gerejaku_backend/internals/features/tenants/billing/controller"
	featuresMiddleware "gerejaku_backend/internals/middlewares/features"
)

// BillingRoutes: upgrade paket & riwayat pembayaran tenant sendiri (admin).
func BillingRoutes(base fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := billingController.NewBillingController(db, validate)

	g := base.Group("/billing", featuresMiddleware.IsTenantAdmin())
	g.Post("/upgrade", ctl.Upgrade)
	g.Get("/payments", ctl.ListPayments)
}

// BillingOwnerRoutes: settlement manual oleh owner platform.
func BillingOwnerRoutes(owner fiber.Router, db *gorm.DB, validate *validator.Validate) {
	ctl := billingController.NewBillingController(db, validate)

	owner.Patch("/payments/:orderId/status", ctl.MarkPayment)
}
