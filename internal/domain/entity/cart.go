package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the ephemeral shopping cart document. It is held in the cart
// store (Redis in production), never in Postgres: carts are destroyed on
// checkout success or explicit clear. All stock figures inside are
// snapshots captured at add-time and only reconciled with server truth by
// the checkout re-validation.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart
func NewCart() *Cart {
	now := time.Now()
	return &Cart{
		ID:        uuid.New(),
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FindItem returns the index of the line with the given item key, or -1
func (c *Cart) FindItem(itemKey string) int {
	for i := range c.Items {
		if c.Items[i].ItemKey == itemKey {
			return i
		}
	}
	return -1
}

// SubtotalCents sums the discounted line totals
func (c *Cart) SubtotalCents() int64 {
	var subtotal int64
	for i := range c.Items {
		subtotal += c.Items[i].LineTotalCents()
	}
	return subtotal
}

// MarshalJSON adds the derived subtotal to API responses
func (c Cart) MarshalJSON() ([]byte, error) {
	type Alias Cart
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
	}{
		Alias:    Alias(c),
		Subtotal: float64(c.SubtotalCents()) / 100,
	})
}

// CartItem is one cart line keyed by productID:variantKey. Everything except
// Quantity is a snapshot of the product/variant/category at add time.
type CartItem struct {
	ItemKey         string          `json:"item_key"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductSlug     string          `json:"product_slug"`
	Price           int64           `json:"-"` // Unit price in cents
	DiscountPercent int             `json:"discount_percent"`
	Image           *string         `json:"image,omitempty"`
	VariantID       uuid.UUID       `json:"variant_id"`
	VariantKey      string          `json:"variant_key"`
	VariantName     string          `json:"variant_name"`
	AvailableStock  decimal.Decimal `json:"available_stock"` // Captured at add time
	QuantityStep    decimal.Decimal `json:"quantity_step"`
	MinQuantity     decimal.Decimal `json:"min_quantity"`
	Quantity        decimal.Decimal `json:"quantity"`
	AddedAt         time.Time       `json:"added_at"`
}

// CartItemKey builds the stable line identifier for a product/variant pair
func CartItemKey(productID uuid.UUID, variantKey string) string {
	return productID.String() + ":" + variantKey
}

// DiscountedUnitPriceCents returns the unit price after discount, in cents
func (i *CartItem) DiscountedUnitPriceCents() int64 {
	if i.DiscountPercent <= 0 {
		return i.Price
	}
	return i.Price * int64(100-i.DiscountPercent) / 100
}

// LineTotalCents returns quantity x discounted unit price, rounded to cents
func (i *CartItem) LineTotalCents() int64 {
	unit := decimal.NewFromInt(i.DiscountedUnitPriceCents())
	return i.Quantity.Mul(unit).Round(0).IntPart()
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i CartItem) MarshalJSON() ([]byte, error) {
	type Alias CartItem
	return json.Marshal(&struct {
		Alias
		Price     float64 `json:"price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(i),
		Price:     float64(i.Price) / 100,
		LineTotal: float64(i.LineTotalCents()) / 100,
	})
}

// UnmarshalJSON restores the cents price from the decimal wire value. The
// cart store round-trips carts through JSON, so this must invert MarshalJSON.
func (i *CartItem) UnmarshalJSON(data []byte) error {
	type Alias CartItem
	aux := &struct {
		*Alias
		Price float64 `json:"price"`
	}{Alias: (*Alias)(i)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	i.Price = int64(math.Round(aux.Price * 100))
	return nil
}
