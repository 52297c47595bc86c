package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Routing keys consumed from sibling services.
const (
	EventOrderReserved   = "orders.order_reserved"
	EventOrderRejected   = "orders.order_rejected"
	EventDeliveryCreated = "orders.delivery_created"
	EventDeliverySuccess = "orders.delivery_success"
	EventOrderCancelled  = "orders.order_cancelled"
)

// Routing keys produced through the outbox.
const (
	EventReserveOrder         = "inventory.reserve_order"
	EventCancelOrder          = "inventory.cancel_order"
	EventDeliveryOrderRequest = "delivery.order_request"
)

// OrderItem is the line-item shape carried inside produced events. Events
// are flat and minimal on purpose; consumers never get full entity snapshots.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequestedEvent asks the inventory service to reserve stock for a
// freshly created order.
type OrderRequestedEvent struct {
	OrderID    int64       `json:"order_id"`
	OrderItems []OrderItem `json:"order_items"`
}

// OrderCancelledEvent asks the inventory service to release a reservation.
type OrderCancelledEvent struct {
	OrderID    int64       `json:"order_id"`
	OrderItems []OrderItem `json:"order_items"`
}

// DeliveryOrderRequestEvent asks the delivery service to create a delivery
// for a paid order.
type DeliveryOrderRequestEvent struct {
	OrderID         int64           `json:"order_id"`
	OrderType       string          `json:"order_type"`
	DeliveryAddress json.RawMessage `json:"delivery_address"`
}

type OrderReservedEvent struct {
	OrderID int64 `json:"order_id"`
}

type OrderRejectedEvent struct {
	OrderID int64 `json:"order_id"`
}

type DeliveryCreatedEvent struct {
	OrderID    int64     `json:"order_id"`
	DeliveryID uuid.UUID `json:"delivery_id"`
}

type DeliverySuccessEvent struct {
	OrderID int64 `json:"order_id"`
}

type OrderCancelSuccessEvent struct {
	OrderID int64 `json:"order_id"`
}
