package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entity. Created and edited by store staff only;
// checkout never mutates products, it only touches variant stock counters.
type Product struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Slug            string         `gorm:"size:255;unique;not null" json:"slug"`
	Price           int64          `gorm:"default:0" json:"-"` // Per unit/meter, stored in cents
	DiscountPercent int            `gorm:"default:0" json:"discount_percent"`
	Image           *string        `gorm:"size:500" json:"image,omitempty"`
	Active          bool           `gorm:"default:true" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Variants []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the unit price as a decimal
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// DiscountedPriceCents returns the effective unit price in cents after the
// product discount is applied
func (p *Product) DiscountedPriceCents() int64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	return p.Price * int64(100-p.DiscountPercent) / 100
}

// FindVariant returns the variant with the given key, or nil
func (p *Product) FindVariant(key string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Key == key {
			return &p.Variants[i]
		}
	}
	return nil
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price           float64 `json:"price"`
		DiscountedPrice float64 `json:"discounted_price"`
	}{
		Alias:           Alias(p),
		Price:           p.GetPriceDecimal(),
		DiscountedPrice: float64(p.DiscountedPriceCents()) / 100,
	})
}

// Variant is a purchasable sub-option of a product (e.g. a colourway).
// availableStock is never stored: it is always derived from the two counters
// via Available, the single place the subtraction lives. Version backs the
// optimistic concurrency control on stock mutations.
type Variant struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_variants_product_key,unique" json:"product_id"`
	Key          string          `gorm:"size:100;not null;index:idx_variants_product_key,unique" json:"key"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	OpeningStock decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"opening_stock"`
	StockOut     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"stock_out"`
	Version      int64           `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new variant
func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Variant model
func (Variant) TableName() string {
	return "variants"
}

// Available derives the sellable stock: openingStock - max(stockOut, 0)
func (v *Variant) Available() decimal.Decimal {
	out := v.StockOut
	if out.IsNegative() {
		out = decimal.Zero
	}
	return v.OpeningStock.Sub(out)
}

// MarshalJSON includes the derived available stock in API responses
func (v Variant) MarshalJSON() ([]byte, error) {
	type Alias Variant
	return json.Marshal(&struct {
		Alias
		AvailableStock decimal.Decimal `json:"available_stock"`
	}{
		Alias:          Alias(v),
		AvailableStock: v.Available(),
	})
}

// Category groups products and carries the quantity business rules for its
// members, so rules never hang off display names.
type Category struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Slug         string          `gorm:"size:255;unique;not null" json:"slug"`
	QuantityStep decimal.Decimal `gorm:"type:numeric(6,2);not null;default:1" json:"quantity_step"`
	MinQuantity  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:1" json:"min_quantity"`
	IsVoucher    bool            `gorm:"default:false" json:"is_voucher"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
