package domain

import "time"

// Cart is a mutable shopping basket until it is converted into an order.
// Orders keep the cart_id they were created from, so cart items double as
// the order's line-item view.
type Cart struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patient_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	CartID    int64     `json:"cart_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
