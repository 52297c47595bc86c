package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_AllowedEdges(t *testing.T) {
	allowed := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusReserved},
		{OrderStatusPending, OrderStatusRejected},
		{OrderStatusReserved, OrderStatusPaymentPending},
		{OrderStatusReserved, OrderStatusCancelPending},
		{OrderStatusReserved, OrderStatusRejected},
		{OrderStatusPaymentPending, OrderStatusDeliveryPending},
		{OrderStatusDeliveryPending, OrderStatusDelivered},
		{OrderStatusCancelPending, OrderStatusCancelled},
	}

	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be allowed", tc.from, tc.to)
	}
}

func TestCanTransitionTo_ForbiddenEdges(t *testing.T) {
	forbidden := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		// No skipping ahead.
		{OrderStatusPending, OrderStatusPaymentPending},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusReserved, OrderStatusDelivered},
		{OrderStatusReserved, OrderStatusCancelled},
		// Cancellation only from RESERVED.
		{OrderStatusPending, OrderStatusCancelPending},
		{OrderStatusPaymentPending, OrderStatusCancelPending},
		{OrderStatusDeliveryPending, OrderStatusCancelPending},
		// Rejection stops once payment has started.
		{OrderStatusPaymentPending, OrderStatusRejected},
		{OrderStatusDeliveryPending, OrderStatusRejected},
		// No going backwards.
		{OrderStatusReserved, OrderStatusPending},
		{OrderStatusPaymentPending, OrderStatusReserved},
		// Self-loops are not transitions.
		{OrderStatusPending, OrderStatusPending},
		{OrderStatusReserved, OrderStatusReserved},
	}

	for _, tc := range forbidden {
		assert.False(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be forbidden", tc.from, tc.to)
	}
}

func TestCanTransitionTo_TerminalStatusesHaveNoExits(t *testing.T) {
	terminals := []OrderStatus{
		OrderStatusDelivered,
		OrderStatusRejected,
		OrderStatusCancelled,
	}
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusReserved,
		OrderStatusPaymentPending,
		OrderStatusDeliveryPending,
		OrderStatusDelivered,
		OrderStatusRejected,
		OrderStatusCancelPending,
		OrderStatusCancelled,
	}

	for _, from := range terminals {
		assert.True(t, from.IsTerminal(), "%s should be terminal", from)
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to),
				"terminal %s must not transition to %s", from, to)
		}
	}
}

func TestIsTerminal_ActiveStatuses(t *testing.T) {
	active := []OrderStatus{
		OrderStatusPending,
		OrderStatusReserved,
		OrderStatusPaymentPending,
		OrderStatusDeliveryPending,
		OrderStatusCancelPending,
	}

	for _, s := range active {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}
