package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"gerejaku_backend/internals/configs"
	database "gerejaku_backend/internals/databases"
	checkinService "gerejaku_backend/internals/features/attendance/checkin/service"
	followupScheduler "gerejaku_backend/internals/features/attendance/followup/scheduler"
	followupService "gerejaku_backend/internals/features/attendance/followup/service"
	gatheringService "gerejaku_backend/internals/features/gatherings/gathering/service"
	notifService "gerejaku_backend/internals/features/notifications/service"
	billingService "gerejaku_backend/internals/features/tenants/billing/service"
	policyService "gerejaku_backend/internals/features/tenants/tenant/service"
	middlewares "gerejaku_backend/internals/middlewares"
	routes "gerejaku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// Skema + index partial untuk dedup attendance & keunikan token
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("❌ Gagal migrasi database: %v", err)
	}

	// ✅ MIDTRANS
	billingService.InitMidtrans(
		configs.GetEnv("MIDTRANS_SERVER_KEY"),
		configs.GetEnvBool("MIDTRANS_USE_PROD", false),
	)

	// 🧩 Rakitan service inti
	policy := policyService.NewPolicyService(database.DB)
	checkin := checkinService.NewCheckinService(checkinService.NewGormStore(database.DB))
	external := gatheringService.NewExternalCheckinService(gatheringService.NewGormGatewayStore(database.DB), checkin)
	followup := followupService.NewFollowUpService(
		followupService.NewGormFollowUpStore(database.DB),
		notifService.NewDispatcher(),
		configs.GetEnvInt("FOLLOWUP_ABSENCE_THRESHOLD", followupService.DefaultAbsenceThreshold),
	)

	// ⏱ scheduler setelah DB siap
	followupScheduler.StartAbsenceScanScheduler(followup)

	// ✅ Routes
	routes.BaseRoutes(app, database.DB)
	routes.SetupRoutes(app, database.DB, routes.Services{
		Policy:   policy,
		Checkin:  checkin,
		External: external,
		FollowUp: followup,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
