package service

import (
	"context"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type PayResult struct {
	UpdatedPayment domain.Payment `json:"updated_payment"`
	UpdatedOrder   domain.Order   `json:"updated_order"`
}

type PaymentService struct {
	repo repository.Store
	log  zerolog.Logger
}

func NewPaymentService(repo repository.Store, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		repo: repo,
		log:  logger.With().Str("component", "payment-service").Logger(),
	}
}

// Pay marks a PENDING payment as PAID, advances its order to
// DELIVERY_PENDING and records the delivery request, all atomically.
// This stands in for a real provider callback.
func (s *PaymentService) Pay(ctx context.Context, paymentID uuid.UUID) (*PayResult, error) {
	payment, order, err := s.repo.MarkPaymentPaid(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("payment_id", payment.ID.String()).
		Int64("order_id", order.ID).Msg("payment paid")

	return &PayResult{
		UpdatedPayment: *payment,
		UpdatedOrder:   *order,
	}, nil
}
