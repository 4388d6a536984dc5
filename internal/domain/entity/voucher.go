package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Voucher is a single redeemable gift-certificate instance. A quantity-3
// voucher purchase yields 3 independent rows, each with its own code.
// Redeemed flips to true on use, or when the owning order is cancelled
// (voiding the code).
type Voucher struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	OrderNumber string     `gorm:"size:50;not null;index" json:"order_number"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null" json:"product_id"`
	Code        string     `gorm:"size:30;unique;not null" json:"code"`
	IsGift      bool       `gorm:"default:false" json:"is_gift"`
	FromName    string     `gorm:"size:255" json:"from_name,omitempty"`
	ToName      string     `gorm:"size:255" json:"to_name,omitempty"`
	Price       int64      `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Redeemed    bool       `gorm:"default:false" json:"redeemed"`
	RedeemedAt  *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (v Voucher) MarshalJSON() ([]byte, error) {
	type Alias Voucher
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(v),
		Price: float64(v.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new voucher
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// VoucherTemplate is a purchasable gift-voucher denomination shown on the
// storefront voucher page.
type VoucherTemplate struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Amount      int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Description string         `gorm:"type:text" json:"description"`
	Image       *string        `gorm:"size:500" json:"image,omitempty"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t VoucherTemplate) MarshalJSON() ([]byte, error) {
	type Alias VoucherTemplate
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(t),
		Amount: float64(t.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new voucher template
func (t *VoucherTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the VoucherTemplate model
func (VoucherTemplate) TableName() string {
	return "voucher_templates"
}
