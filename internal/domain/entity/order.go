package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is created exactly once per successful checkout. Money fields are
// stored in cents. StockRestored guards the cancellation compensation so
// stock can never be restored twice.
type Order struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber   string             `gorm:"size:50;unique;not null" json:"order_number"`
	OrderStatus   enum.OrderStatus   `gorm:"default:0" json:"order_status"`
	FirstName     string             `gorm:"size:255" json:"first_name"`
	LastName      string             `gorm:"size:255" json:"last_name"`
	Address       string             `gorm:"size:500" json:"address"`
	District      string             `gorm:"size:100" json:"district"`
	City          string             `gorm:"size:150" json:"city"`
	Phone         string             `gorm:"size:50;index" json:"phone"`
	Email         string             `gorm:"size:255" json:"email"`
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
	PaymentMethod enum.PaymentMethod `gorm:"size:10;not null" json:"payment_method"`
	SubTotal      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ShippingCost  int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total         int64              `gorm:"default:0;index" json:"-"` // Stored in cents, excluded from JSON
	StockRestored bool               `gorm:"default:false" json:"stock_restored"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Vouchers []Voucher   `gorm:"foreignKey:OrderID" json:"vouchers,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal     float64 `json:"sub_total"`
		ShippingCost float64 `json:"shipping_cost"`
		Total        float64 `json:"total"`
	}{
		Alias:        Alias(o),
		SubTotal:     float64(o.SubTotal) / 100,
		ShippingCost: float64(o.ShippingCost) / 100,
		Total:        float64(o.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// HasPhysicalItems reports whether the order ships any goods
func (o *Order) HasPhysicalItems() bool {
	for _, item := range o.Items {
		if item.ItemType == enum.ItemTypeProduct {
			return true
		}
	}
	return false
}

// HasVouchers reports whether the order includes gift vouchers
func (o *Order) HasVouchers() bool {
	for _, item := range o.Items {
		if item.ItemType == enum.ItemTypeVoucher {
			return true
		}
	}
	return false
}

// OrderItem is a frozen snapshot of what was sold at order time. Future
// product edits never retroactively alter historical order records.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemType    enum.ItemType   `gorm:"size:20;not null" json:"item_type"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	VariantID   *uuid.UUID      `gorm:"type:uuid" json:"variant_id,omitempty"`
	VariantKey  string          `gorm:"size:100" json:"variant_key,omitempty"`
	VariantName string          `gorm:"size:255" json:"variant_name,omitempty"`
	Image       *string         `gorm:"size:500" json:"image,omitempty"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	UnitPrice   int64           `gorm:"not null" json:"-"` // Discounted price at order time, in cents
	Total       int64           `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(oi),
		UnitPrice: float64(oi.UnitPrice) / 100,
		Total:     float64(oi.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
