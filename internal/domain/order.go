package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "PENDING"
	OrderStatusReserved        OrderStatus = "RESERVED"
	OrderStatusPaymentPending  OrderStatus = "PAYMENT_PENDING"
	OrderStatusDeliveryPending OrderStatus = "DELIVERY_PENDING"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusCancelPending   OrderStatus = "CANCEL_PENDING"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
)

// transitions lists the only legal next statuses for each order status.
// Terminal statuses have no entry.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:         {OrderStatusReserved, OrderStatusRejected},
	OrderStatusReserved:        {OrderStatusPaymentPending, OrderStatusCancelPending, OrderStatusRejected},
	OrderStatusPaymentPending:  {OrderStatusDeliveryPending},
	OrderStatusDeliveryPending: {OrderStatusDelivered},
	OrderStatusCancelPending:   {OrderStatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID        int64       `json:"id"`
	CartID    int64       `json:"cart_id"`
	PatientID int64       `json:"patient_id"`
	Status    OrderStatus `json:"status"`
	OrderType string      `json:"order_type"`

	// DeliveryID is assigned once the delivery service has created a
	// delivery for this order; nil until then.
	DeliveryID *uuid.UUID `json:"delivery_id"`

	// DeliveryAddress is a point-in-time snapshot captured at order
	// creation. It is never re-fetched from the delivery service.
	DeliveryAddress json.RawMessage `json:"delivery_address"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}
