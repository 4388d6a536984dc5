package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
)

// CartRepository is the injectable persistence backend for the cart store.
// The cart service owns all mutation rules; backends only load and save
// whole cart documents.
type CartRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}
