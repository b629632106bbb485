// internals/features/tenants/billing/model/subscription_payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"

	"gerejaku_backend/internals/constants"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentCanceled PaymentStatus = "canceled"
	PaymentExpired  PaymentStatus = "expired"
)

// SubscriptionPaymentModel: log transaksi upgrade tier via Midtrans.
// Status diubah oleh operasi admin/owner (webhook provider di luar scope);
// perubahan tier tenant sendiri masuk lewat update Tenant, bukan dari sini.
type SubscriptionPaymentModel struct {
	// PK
	PaymentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:payment_id" json:"payment_id"`

	PaymentTenantID uuid.UUID `gorm:"type:uuid;not null;column:payment_tenant_id;index:idx_subscription_payments_tenant" json:"payment_tenant_id"`

	// Dipakai sebagai OrderID Midtrans
	PaymentOrderID string `gorm:"type:varchar(64);not null;uniqueIndex:uq_subscription_payments_order;column:payment_order_id" json:"payment_order_id"`

	PaymentTargetTier constants.SubscriptionTier `gorm:"type:varchar(16);not null;column:payment_target_tier" json:"payment_target_tier"`
	PaymentAmountIDR  int64                      `gorm:"not null;column:payment_amount_idr" json:"payment_amount_idr"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:pending;column:payment_status;index:idx_subscription_payments_status" json:"payment_status"`

	PaymentSnapToken       *string `gorm:"type:varchar(128);column:payment_snap_token" json:"payment_snap_token,omitempty"`
	PaymentSnapRedirectURL *string `gorm:"type:text;column:payment_snap_redirect_url" json:"payment_snap_redirect_url,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (SubscriptionPaymentModel) TableName() string {
	return "subscription_payments"
}
