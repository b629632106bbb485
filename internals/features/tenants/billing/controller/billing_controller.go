// internals/features/tenants/billing/controller/billing_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/tenants/billing/dto"
	"gerejaku_backend/internals/features/tenants/billing/model"
	"gerejaku_backend/internals/features/tenants/billing/service"
	tenantModel "gerejaku_backend/internals/features/tenants/tenant/model"
	userModel "gerejaku_backend/internals/features/users/auth/model"
	helper "gerejaku_backend/internals/helpers"
)

type BillingController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewBillingController(db *gorm.DB, validate *validator.Validate) *BillingController {
	return &BillingController{DB: db, Validate: validate}
}

// POST /api/a/billing/upgrade
// Membuat transaksi Snap untuk upgrade tier; tier tenant baru berubah
// setelah pembayaran ditandai paid (lihat MarkPayment).
func (ctl *BillingController) Upgrade(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.UpgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	targetTier := constants.SubscriptionTier(req.TargetTier)
	price, ok := service.PriceForTier(targetTier)
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "Paket tidak tersedia untuk upgrade")
	}

	var tenant tenantModel.TenantModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("tenant_id = ?", tenantID).
		First(&tenant).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Tenant tidak ditemukan")
	}
	if tenant.TenantTier == targetTier {
		return helper.JsonError(c, fiber.StatusConflict, "Tenant sudah di paket tersebut")
	}

	var user userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data pengguna")
	}

	payment := model.SubscriptionPaymentModel{
		PaymentTenantID:   tenantID,
		PaymentOrderID:    "SUB-" + strings.ToUpper(uuid.NewString()[:18]),
		PaymentTargetTier: targetTier,
		PaymentAmountIDR:  price,
		PaymentStatus:     model.PaymentPending,
	}

	phone := ""
	if tenant.TenantContactPhone != nil {
		phone = *tenant.TenantContactPhone
	}
	token, redirectURL, err := service.GenerateSnapToken(payment, service.CustomerInput{
		FirstName: tenant.TenantName,
		Email:     user.UserEmail,
		Phone:     phone,
	})
	if err != nil {
		log.Printf("[BILLING] gagal membuat snap token: %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran")
	}
	payment.PaymentSnapToken = &token
	payment.PaymentSnapRedirectURL = &redirectURL

	if err := ctl.DB.WithContext(c.Context()).Create(&payment).Error; err != nil {
		log.Printf("[BILLING] gagal menyimpan transaksi: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan transaksi")
	}

	return helper.JsonCreated(c, "Transaksi upgrade dibuat", dto.FromPaymentModel(payment))
}

// GET /api/a/billing/payments
func (ctl *BillingController) ListPayments(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)

	base := ctl.DB.WithContext(c.Context()).
		Model(&model.SubscriptionPaymentModel{}).
		Where("payment_tenant_id = ?", tenantID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat pembayaran")
	}

	var rows []model.SubscriptionPaymentModel
	if err := base.Order("payment_created_at DESC").
		Limit(p.PerPage).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat pembayaran")
	}

	return helper.JsonList(c, "Riwayat pembayaran", dto.ToPaymentResponseList(rows),
		helper.BuildPaginationFromPage(p.Page, p.PerPage, total))
}

// PATCH /api/o/payments/:orderId/status (owner)
// Settlement manual: paid sekaligus memindahkan tier tenant.
func (ctl *BillingController) MarkPayment(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	if orderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Order ID wajib diisi")
	}

	var req dto.MarkPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var payment model.SubscriptionPaymentModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("payment_order_id = ?", orderID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Transaksi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil transaksi")
	}
	if payment.PaymentStatus != model.PaymentPending {
		return helper.JsonError(c, fiber.StatusConflict, "Transaksi sudah berstatus final")
	}

	newStatus := model.PaymentStatus(req.Status)
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.SubscriptionPaymentModel{}).
			Where("payment_id = ?", payment.PaymentID).
			Update("payment_status", newStatus).Error; err != nil {
			return err
		}
		if newStatus == model.PaymentPaid {
			return tx.Model(&tenantModel.TenantModel{}).
				Where("tenant_id = ?", payment.PaymentTenantID).
				Update("tenant_tier", payment.PaymentTargetTier).Error
		}
		return nil
	})
	if err != nil {
		log.Printf("[BILLING] gagal update status transaksi %s: %v", orderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui transaksi")
	}

	payment.PaymentStatus = newStatus
	return helper.JsonUpdated(c, "Status transaksi diperbarui", dto.FromPaymentModel(payment))
}
