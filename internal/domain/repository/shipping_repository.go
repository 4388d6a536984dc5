package repository

import (
	"context"

	"github.com/lankaweave/storefront-api/internal/domain/entity"
)

// ShippingRepository defines the interface for shipping rate data operations
type ShippingRepository interface {
	ListRates(ctx context.Context) ([]entity.ShippingRate, error)
}
