package service

import (
	"context"
	"encoding/json"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
	"github.com/rs/zerolog"
)

// PricingLookup resolves product ids to unit prices. Unknown ids are absent
// from the map.
type PricingLookup interface {
	GetUnitPrices(ctx context.Context, ids []int64) (map[int64]float64, error)
}

// AddressLookup fetches a delivery-address snapshot, enforcing that the
// address belongs to the acting patient.
type AddressLookup interface {
	GetAddressOwned(ctx context.Context, addressID, patientID int64) (json.RawMessage, error)
}

// OrderView is an order plus its live line-item view (read from cart_items
// by the order's cart id) and the total computed from current unit prices.
type OrderView struct {
	Order      domain.Order      `json:"order"`
	OrderItems []domain.CartItem `json:"order_items"`
	TotalPrice float64           `json:"total_price"`
}

type OrderService struct {
	repo     repository.Store
	pricing  PricingLookup
	delivery AddressLookup
	log      zerolog.Logger
}

func NewOrderService(repo repository.Store, pricing PricingLookup, delivery AddressLookup, logger zerolog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		pricing:  pricing,
		delivery: delivery,
		log:      logger.With().Str("component", "order-service").Logger(),
	}
}

// totalPrice sums quantity x unit price over the given items. A product id
// missing from the pricing response contributes 0 to the total; this is a
// deliberately lenient policy, not a masked error.
func totalPrice(items []domain.CartItem, unitPrices map[int64]float64) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * unitPrices[item.ProductID]
	}
	return total
}

func productIDs(items []domain.CartItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}
