package service

import (
	"context"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
	"github.com/rs/zerolog"
)

type CartView struct {
	Cart       domain.Cart       `json:"cart"`
	CartItems  []domain.CartItem `json:"cart_items"`
	TotalPrice float64           `json:"total_price"`
}

type UpdateCartResult struct {
	UpdatedCart  domain.Cart       `json:"updated_cart"`
	UpdatedItems []domain.CartItem `json:"updated_items"`
	DeletedItems []domain.CartItem `json:"deleted_items"`
}

type CartService struct {
	repo    repository.Store
	pricing PricingLookup
	log     zerolog.Logger
}

func NewCartService(repo repository.Store, pricing PricingLookup, logger zerolog.Logger) *CartService {
	return &CartService{
		repo:    repo,
		pricing: pricing,
		log:     logger.With().Str("component", "cart-service").Logger(),
	}
}

func (s *CartService) CreateCart(ctx context.Context, patientID int64, items []repository.CartItemInput) (*domain.Cart, []domain.CartItem, error) {
	cart, created, err := s.repo.CreateCart(ctx, patientID, items)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Int64("cart_id", cart.ID).Int64("patient_id", patientID).
		Int("items", len(created)).Msg("cart created")
	return cart, created, nil
}

func (s *CartService) GetCart(ctx context.Context, id, patientID int64) (*CartView, error) {
	cart, err := s.repo.GetCart(ctx, id, patientID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	unitPrices, err := s.pricing.GetUnitPrices(ctx, productIDs(items))
	if err != nil {
		return nil, err
	}

	return &CartView{
		Cart:       *cart,
		CartItems:  items,
		TotalPrice: totalPrice(items, unitPrices),
	}, nil
}

func (s *CartService) ListCarts(ctx context.Context) ([]domain.Cart, error) {
	return s.repo.ListCarts(ctx)
}

func (s *CartService) ListMyCarts(ctx context.Context, patientID int64) ([]CartView, error) {
	carts, err := s.repo.ListCartsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return []CartView{}, nil
	}

	cartIDs := make([]int64, len(carts))
	for i, cart := range carts {
		cartIDs[i] = cart.ID
	}

	items, err := s.repo.CartItemsByCartIDs(ctx, cartIDs)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	unitPrices, err := s.pricing.GetUnitPrices(ctx, productIDs(items))
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]domain.CartItem)
	for _, item := range items {
		grouped[item.CartID] = append(grouped[item.CartID], item)
	}

	views := make([]CartView, len(carts))
	for i, cart := range carts {
		cartItems := grouped[cart.ID]
		views[i] = CartView{
			Cart:       cart,
			CartItems:  cartItems,
			TotalPrice: totalPrice(cartItems, unitPrices),
		}
	}
	return views, nil
}

func (s *CartService) UpdateCart(ctx context.Context, id, patientID int64, items []repository.CartItemInput) (*UpdateCartResult, error) {
	cart, updated, deleted, err := s.repo.UpdateCart(ctx, id, patientID, items)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("cart_id", cart.ID).Int("updated", len(updated)).
		Int("deleted", len(deleted)).Msg("cart updated")

	return &UpdateCartResult{
		UpdatedCart:  *cart,
		UpdatedItems: updated,
		DeletedItems: deleted,
	}, nil
}

func (s *CartService) DeleteCart(ctx context.Context, id, patientID int64) (*domain.Cart, error) {
	return s.repo.DeleteCart(ctx, id, patientID)
}
