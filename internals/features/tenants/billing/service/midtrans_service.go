// internals/features/tenants/billing/service/midtrans_service.go
package service

import (
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"gerejaku_backend/internals/constants"
	"gerejaku_backend/internals/features/tenants/billing/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

/* =========================================================
   Harga langganan per bulan (IDR)
========================================================= */

var tierPriceIDR = map[constants.SubscriptionTier]int64{
	constants.TierStarter:    149000,
	constants.TierGrowth:     399000,
	constants.TierEnterprise: 999000,
}

func PriceForTier(tier constants.SubscriptionTier) (int64, bool) {
	p, ok := tierPriceIDR[tier]
	return p, ok
}

/* =========================================================
   Input helper untuk data customer
========================================================= */

type CustomerInput struct {
	FirstName string
	Email     string
	Phone     string
}

/* =========================================================
   Generate Snap Token
========================================================= */

func GenerateSnapToken(p model.SubscriptionPaymentModel, cust CustomerInput) (string, string, error) {
	if p.PaymentAmountIDR <= 0 {
		return "", "", errors.New("invalid payment_amount_idr")
	}
	if p.PaymentOrderID == "" {
		return "", "", errors.New("payment_order_id is required (dipakai sebagai OrderID)")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.PaymentOrderID,
			GrossAmt: p.PaymentAmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    string(p.PaymentTargetTier),
				Name:  "Langganan Gerejaku paket " + string(p.PaymentTargetTier),
				Price: p.PaymentAmountIDR,
				Qty:   1,
			},
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}
