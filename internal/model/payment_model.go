package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

type Payment struct {
	PaymentID       int64           `json:"payment_id"`
	OrderID         int64           `json:"order_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentProvider string          `json:"payment_provider"`
	ProviderRef     string          `json:"provider_ref"`
	ProviderPayload []byte          `json:"provider_payload,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}
