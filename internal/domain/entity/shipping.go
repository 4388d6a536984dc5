package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shipping tier names. "urban" rows match an exact (district, city) pair,
// "suburb" rows match a district with City left empty, and the single
// "other" row is the fallback fee for everywhere else.
const (
	ShippingTierUrban  = "urban"
	ShippingTierSuburb = "suburb"
	ShippingTierOther  = "other"
)

// ShippingRate is one row of the tiered delivery-fee table.
type ShippingRate struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	District  string         `gorm:"size:100;index" json:"district"`
	City      string         `gorm:"size:150" json:"city"`
	Tier      string         `gorm:"size:20;not null" json:"tier"`
	Fee       int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r ShippingRate) MarshalJSON() ([]byte, error) {
	type Alias ShippingRate
	return json.Marshal(&struct {
		Alias
		Fee float64 `json:"fee"`
	}{
		Alias: Alias(r),
		Fee:   float64(r.Fee) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new shipping rate
func (r *ShippingRate) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ShippingRate model
func (ShippingRate) TableName() string {
	return "shipping_rates"
}
