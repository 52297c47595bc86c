package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderStore is the slice of persistence the handlers need: conditional,
// single-row writes keyed by the event's order id.
type OrderStore interface {
	AdvanceOrderStatus(ctx context.Context, id int64, from []domain.OrderStatus, to domain.OrderStatus) (*domain.Order, error)
	AttachDelivery(ctx context.Context, id int64, deliveryID uuid.UUID) (*domain.Order, error)
}

// Handlers applies events from the inventory and delivery services onto
// local orders. Every update is gated on the expected prior status, so a
// stale, duplicated or out-of-order event matches zero rows and is dropped
// rather than applied on top of a more advanced state.
type Handlers struct {
	store OrderStore
	log   zerolog.Logger
}

func NewHandlers(store OrderStore, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store: store,
		log:   logger.With().Str("component", "order-events").Logger(),
	}
}

// RegisterAll binds the five consumed routing keys onto the pipeline.
func (h *Handlers) RegisterAll(p *Pipeline) {
	p.Register(domain.EventOrderReserved, h.OrderReserved)
	p.Register(domain.EventOrderRejected, h.OrderRejected)
	p.Register(domain.EventOrderCancelled, h.OrderCancelled)
	p.Register(domain.EventDeliveryCreated, h.DeliveryCreated)
	p.Register(domain.EventDeliverySuccess, h.DeliverySuccess)
}

func (h *Handlers) OrderReserved(ctx context.Context, message []byte) error {
	var event domain.OrderReservedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return fmt.Errorf("%w: decode order_reserved: %v", ErrDrop, err)
	}

	order, err := h.store.AdvanceOrderStatus(ctx, event.OrderID,
		[]domain.OrderStatus{domain.OrderStatusPending}, domain.OrderStatusReserved)
	if err != nil {
		return h.applyOutcome(err, "order_reserved", event.OrderID)
	}

	h.log.Info().Int64("order_id", order.ID).Msg("order reserved")
	return nil
}

func (h *Handlers) OrderRejected(ctx context.Context, message []byte) error {
	var event domain.OrderRejectedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return fmt.Errorf("%w: decode order_rejected: %v", ErrDrop, err)
	}

	// A rejection answers the reserve request sent at creation, so the
	// order is normally still PENDING; RESERVED is accepted too because
	// the reserved and rejected events travel on different keys.
	order, err := h.store.AdvanceOrderStatus(ctx, event.OrderID,
		[]domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusReserved},
		domain.OrderStatusRejected)
	if err != nil {
		return h.applyOutcome(err, "order_rejected", event.OrderID)
	}

	h.log.Info().Int64("order_id", order.ID).Msg("order rejected")
	return nil
}

func (h *Handlers) OrderCancelled(ctx context.Context, message []byte) error {
	var event domain.OrderCancelSuccessEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return fmt.Errorf("%w: decode order_cancelled: %v", ErrDrop, err)
	}

	order, err := h.store.AdvanceOrderStatus(ctx, event.OrderID,
		[]domain.OrderStatus{domain.OrderStatusCancelPending}, domain.OrderStatusCancelled)
	if err != nil {
		return h.applyOutcome(err, "order_cancelled", event.OrderID)
	}

	h.log.Info().Int64("order_id", order.ID).Msg("order cancelled")
	return nil
}

func (h *Handlers) DeliveryCreated(ctx context.Context, message []byte) error {
	var event domain.DeliveryCreatedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return fmt.Errorf("%w: decode delivery_created: %v", ErrDrop, err)
	}

	order, err := h.store.AttachDelivery(ctx, event.OrderID, event.DeliveryID)
	if err != nil {
		return h.applyOutcome(err, "delivery_created", event.OrderID)
	}

	h.log.Info().Int64("order_id", order.ID).
		Str("delivery_id", event.DeliveryID.String()).Msg("delivery attached to order")
	return nil
}

func (h *Handlers) DeliverySuccess(ctx context.Context, message []byte) error {
	var event domain.DeliverySuccessEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return fmt.Errorf("%w: decode delivery_success: %v", ErrDrop, err)
	}

	order, err := h.store.AdvanceOrderStatus(ctx, event.OrderID,
		[]domain.OrderStatus{domain.OrderStatusDeliveryPending}, domain.OrderStatusDelivered)
	if err != nil {
		return h.applyOutcome(err, "delivery_success", event.OrderID)
	}

	h.log.Info().Int64("order_id", order.ID).Msg("order delivered")
	return nil
}

// applyOutcome maps a store error to the pipeline contract: a guard miss
// means the event already applied or arrived out of order, which is safe to
// acknowledge; anything else is an infrastructure failure worth a retry.
func (h *Handlers) applyOutcome(err error, eventType string, orderID int64) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		h.log.Warn().Int64("order_id", orderID).Str("event_type", eventType).
			Msg("event did not match order state, treating as already applied")
		return fmt.Errorf("%w: %s for order %d: %v", ErrDrop, eventType, orderID, err)
	}
	return fmt.Errorf("apply %s for order %d: %w", eventType, orderID, err)
}
