package service

import (
	"context"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
)

type CreatePaymentRequest struct {
	Provider string `json:"provider"`
}

type CreatePaymentResult struct {
	Payment      domain.Payment `json:"payment"`
	UpdatedOrder domain.Order   `json:"updated_order"`
}

// CreatePayment computes the payment amount server-side from the order's
// line items and current unit prices, then atomically advances the order
// RESERVED -> PAYMENT_PENDING and inserts the PENDING payment. The amount
// is fixed at this point and never recomputed.
func (s *OrderService) CreatePayment(ctx context.Context, orderID, patientID int64, req CreatePaymentRequest) (*CreatePaymentResult, error) {
	if req.Provider != domain.ProviderQRPayment {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvider, req.Provider)
	}

	// Early read outside the transaction: reject obviously ineligible
	// orders before calling the pricing service. The conditional update
	// below re-checks the status, so this is not the safety mechanism.
	order, err := s.repo.GetOrderForPatient(ctx, orderID, patientID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.CartItems(ctx, order.CartID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	unitPrices, err := s.pricing.GetUnitPrices(ctx, productIDs(items))
	if err != nil {
		return nil, err
	}
	amount := totalPrice(items, unitPrices)

	updatedOrder, payment, err := s.repo.CreatePayment(ctx, orderID, patientID, amount, req.Provider)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("order_id", updatedOrder.ID).
		Str("payment_id", payment.ID.String()).
		Float64("amount", payment.Amount).Msg("payment created")

	return &CreatePaymentResult{
		Payment:      *payment,
		UpdatedOrder: *updatedOrder,
	}, nil
}
