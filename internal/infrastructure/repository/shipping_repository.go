package repository

import (
	"context"

	"github.com/lankaweave/storefront-api/internal/domain/entity"
	domainRepo "github.com/lankaweave/storefront-api/internal/domain/repository"
	"gorm.io/gorm"
)

type shippingRepository struct {
	db *gorm.DB
}

// NewShippingRepository creates a new shipping rate repository
func NewShippingRepository(db *gorm.DB) domainRepo.ShippingRepository {
	return &shippingRepository{db: db}
}

func (r *shippingRepository) ListRates(ctx context.Context) ([]entity.ShippingRate, error) {
	var rates []entity.ShippingRate
	err := r.db.WithContext(ctx).Order("district, city").Find(&rates).Error
	return rates, err
}
