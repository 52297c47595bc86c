package service

import (
	"context"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
)

const defaultOrderType = "DELIVERY"

type CreateOrderRequest struct {
	CartID            int64  `json:"cart_id"`
	DeliveryAddressID int64  `json:"delivery_address_id"`
	OrderType         string `json:"order_type,omitempty"`
}

// CreateOrder freezes the delivery address, then creates the PENDING order
// and its inventory reservation event in one transaction. The ownership
// check happens before anything is written, so a forbidden or unreachable
// address leaves no partial state behind.
func (s *OrderService) CreateOrder(ctx context.Context, patientID int64, req CreateOrderRequest) (*domain.Order, error) {
	address, err := s.delivery.GetAddressOwned(ctx, req.DeliveryAddressID, patientID)
	if err != nil {
		return nil, err
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = defaultOrderType
	}

	order, err := s.repo.CreateOrder(ctx, patientID, req.CartID, orderType, address)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info().Int64("order_id", order.ID).Int64("cart_id", order.CartID).
		Int64("patient_id", patientID).Msg("order created")
	return order, nil
}
