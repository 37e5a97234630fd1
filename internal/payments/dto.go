package payments

import (
	"github.com/lumakara/studio-backend/pkg/db/models"
)

// CheckoutInput captures a request to open a hosted checkout for an order.
type CheckoutInput struct {
	OrderID     string `json:"order_id" validate:"required,uuid"`
	PaymentType string `json:"payment_type" validate:"required,oneof=DOWN_PAYMENT FULL_PAYMENT"`
}

// CheckoutResult is returned to the caller so the frontend can open Snap.
type CheckoutResult struct {
	Payment     *models.Payment `json:"payment"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
}

// NotificationPayload mirrors the gateway's HTTP notification body. Amounts
// arrive as strings ("1500000.00") and are verified before parsing.
type NotificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionTime   string `json:"transaction_time"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

// ManualPaymentInput records an offline payment taken at the studio.
type ManualPaymentInput struct {
	OrderID     string `json:"order_id" validate:"required,uuid"`
	PaymentType string `json:"payment_type" validate:"required,oneof=DOWN_PAYMENT FULL_PAYMENT"`
	GrossAmount int64  `json:"gross_amount" validate:"required,min=1"`
	Reference   *string `json:"reference" validate:"omitempty,max=200"`
}
