package service

import (
	"context"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
)

// CancelOrder soft-cancels a RESERVED order owned by the patient. The
// conditional update in the store does the gating; an order in any other
// status (or owned by someone else) surfaces as not-found.
func (s *OrderService) CancelOrder(ctx context.Context, id, patientID int64) (*domain.Order, error) {
	order, err := s.repo.CancelOrder(ctx, id, patientID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("order_id", order.ID).Int64("patient_id", patientID).
		Msg("order cancel requested")
	return order, nil
}
