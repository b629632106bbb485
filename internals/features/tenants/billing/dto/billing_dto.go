// internals/features/tenants/billing/dto/billing_dto.go
package dto

import (
	"time"

	"gerejaku_backend/internals/features/tenants/billing/model"
)

type UpgradeRequest struct {
	TargetTier string `json:"target_tier" validate:"required,oneof=starter growth enterprise"`
}

type MarkPaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=paid canceled expired"`
}

type PaymentResponse struct {
	PaymentID   string    `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	TargetTier  string    `json:"target_tier"`
	AmountIDR   int64     `json:"amount_idr"`
	Status      string    `json:"status"`
	SnapToken   *string   `json:"snap_token,omitempty"`
	RedirectURL *string   `json:"redirect_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromPaymentModel(p model.SubscriptionPaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID.String(),
		OrderID:     p.PaymentOrderID,
		TargetTier:  string(p.PaymentTargetTier),
		AmountIDR:   p.PaymentAmountIDR,
		Status:      string(p.PaymentStatus),
		SnapToken:   p.PaymentSnapToken,
		RedirectURL: p.PaymentSnapRedirectURL,
		CreatedAt:   p.PaymentCreatedAt,
	}
}

func ToPaymentResponseList(ps []model.SubscriptionPaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPaymentModel(p))
	}
	return out
}
