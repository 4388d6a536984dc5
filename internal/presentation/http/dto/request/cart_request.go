package request

import "github.com/google/uuid"

// AddCartItemRequest adds or replaces a line in a cart
type AddCartItemRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	VariantKey string    `json:"variant_key" binding:"required"`
	Quantity   float64   `json:"quantity" binding:"required,gt=0"`
}

// UpdateCartItemRequest changes the quantity of an existing cart line
type UpdateCartItemRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
}
