package request

import "github.com/google/uuid"

// CheckoutRequest is the order-placement payload. Field names follow the
// storefront client's camelCase contract.
type CheckoutRequest struct {
	Form         CheckoutFormRequest   `json:"form" binding:"required"`
	Items        []CheckoutItemRequest `json:"items" binding:"required"`
	Total        float64               `json:"total"`
	ShippingCost float64               `json:"shippingCost"`
}

// CheckoutFormRequest is the billing form portion of the checkout payload.
// Required-field enforcement is conditional on the cart containing physical
// items, so it happens in the service rather than via binding tags.
type CheckoutFormRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	District  string `json:"district"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	Payment   string `json:"payment" binding:"required"`
}

// CheckoutItemRequest is one cart line: a physical product line or a voucher
// group with one entry per voucher unit
type CheckoutItemRequest struct {
	Type       string                   `json:"type" binding:"required"`
	ProductID  *uuid.UUID               `json:"productId"`
	VariantKey string                   `json:"variantKey"`
	Quantity   float64                  `json:"quantity"`
	Vouchers   []CheckoutVoucherRequest `json:"vouchers"`
}

// CheckoutVoucherRequest is one gift-voucher unit inside a voucher group
type CheckoutVoucherRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	IsGift    bool      `json:"isGift"`
	FromName  string    `json:"fromName"`
	ToName    string    `json:"toName"`
}
