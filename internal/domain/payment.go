package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// ProviderQRPayment is the only payment provider currently accepted.
const ProviderQRPayment = "qr_payment"

type Payment struct {
	ID      uuid.UUID     `json:"id"`
	OrderID int64         `json:"order_id"`
	Amount  float64       `json:"amount"`
	Status  PaymentStatus `json:"status"`

	Provider      string  `json:"provider"`
	ProviderRef   *string `json:"provider_ref"`
	FailureReason *string `json:"failure_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
