package service

import (
	"context"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
)

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

// GetOrder returns an order with its line items and live total. The item
// view is read from cart_items by the order's cart id: if the upstream cart
// rows have been deleted, the view degrades to empty.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*OrderView, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, order)
}

func (s *OrderService) GetOrderForPatient(ctx context.Context, id, patientID int64) (*OrderView, error) {
	order, err := s.repo.GetOrderForPatient(ctx, id, patientID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, order)
}

func (s *OrderService) buildView(ctx context.Context, order *domain.Order) (*OrderView, error) {
	items, err := s.repo.CartItems(ctx, order.CartID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	unitPrices, err := s.pricing.GetUnitPrices(ctx, productIDs(items))
	if err != nil {
		return nil, err
	}

	return &OrderView{
		Order:      *order,
		OrderItems: items,
		TotalPrice: totalPrice(items, unitPrices),
	}, nil
}

// ListMyOrders returns the patient's orders with items and totals, with one
// batched cart-items read and one batched pricing lookup.
func (s *OrderService) ListMyOrders(ctx context.Context, patientID int64) ([]OrderView, error) {
	orders, err := s.repo.ListOrdersByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []OrderView{}, nil
	}

	cartIDs := make([]int64, len(orders))
	for i, order := range orders {
		cartIDs[i] = order.CartID
	}

	items, err := s.repo.CartItemsByCartIDs(ctx, cartIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	unitPrices, err := s.pricing.GetUnitPrices(ctx, productIDs(items))
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]domain.CartItem)
	for _, item := range items {
		grouped[item.CartID] = append(grouped[item.CartID], item)
	}

	views := make([]OrderView, len(orders))
	for i, order := range orders {
		orderItems := grouped[order.CartID]
		views[i] = OrderView{
			Order:      order,
			OrderItems: orderItems,
			TotalPrice: totalPrice(orderItems, unitPrices),
		}
	}
	return views, nil
}
