// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	checkinService "gerejaku_backend/internals/features/attendance/checkin/service"
	followupService "gerejaku_backend/internals/features/attendance/followup/service"
	gatheringService "gerejaku_backend/internals/features/gatherings/gathering/service"
	policyservice "gerejaku_backend/internals/features/tenants/tenant/service"
	authMiddleware "gerejaku_backend/internals/middlewares/auth"
	featuresMiddleware "gerejaku_backend/internals/middlewares/features"
	routeDetails "gerejaku_backend/internals/route/details"
)

var startTime time.Time

// Services dirakit sekali di bootstrap lalu dibagikan ke route details.
type Services struct {
	Policy   *policyservice.PolicyService
	Checkin  *checkinService.CheckinService
	External *gatheringService.ExternalCheckinService
	FollowUp *followupService.FollowUpService
}

func SetupRoutes(app *fiber.App, db *gorm.DB, svc Services) {
	startTime = time.Now()
	validate := validator.New()

	// ===================== GROUPS =====================

	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	jwtOpts := authMiddleware.AuthJWTOpts{
		Secret:              os.Getenv("JWT_SECRET"),
		AllowCookieFallback: true,
	}

	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u", authMiddleware.AuthJWT(jwtOpts))

	// Satu base group untuk semua operasi tenant: guard minimumnya staf;
	// route yang butuh admin memasang IsTenantAdmin sendiri.
	log.Println("[INFO] Setting up TENANT group (Auth + staff minimum)...")
	base := app.Group("/api/a", authMiddleware.AuthJWT(jwtOpts), featuresMiddleware.IsTenantStaff())

	log.Println("[INFO] Setting up OWNER group (Auth + owner global)...")
	owner := app.Group("/api/o", authMiddleware.AuthJWT(jwtOpts), featuresMiddleware.IsOwnerGlobal())

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Auth routes...")
	routeDetails.AuthPublicRoutes(public, db, validate)
	routeDetails.AuthUserRoutes(user, db, validate)
	routeDetails.AuthAdminRoutes(base, db, validate)

	log.Println("[INFO] Mounting Tenant routes...")
	routeDetails.TenantPublicRoutes(public, db, validate)
	routeDetails.TenantAdminRoutes(base, db, validate)
	routeDetails.TenantOwnerRoutes(owner, db, validate)

	log.Println("[INFO] Mounting Member & Visitor routes...")
	routeDetails.MemberRoutes(base, db, validate, svc.Policy)
	routeDetails.VisitorRoutes(base, db, validate, svc.Policy)

	log.Println("[INFO] Mounting Gathering routes...")
	routeDetails.GatheringRoutes(base, db, validate, svc.Policy, svc.External)
	routeDetails.ExternalCheckinPublicRoutes(public, validate, svc.External)

	log.Println("[INFO] Mounting Attendance routes...")
	routeDetails.AttendanceRoutes(base, db, validate, svc.Checkin)
	routeDetails.FollowUpRoutes(base, db, validate, svc.Policy, svc.FollowUp)

	log.Println("[INFO] Mounting Billing routes...")
	routeDetails.BillingRoutes(base, db, validate)
	routeDetails.BillingOwnerRoutes(owner, db, validate)
}
