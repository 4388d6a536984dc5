package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	domainRepo "github.com/lankaweave/storefront-api/internal/domain/repository"
)

type cartMemoryRepository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]byte
}

// NewCartMemoryRepository creates an in-process cart store. Used when Redis
// is unavailable and as the test backend. Carts are stored as their JSON
// encoding so reads hand back independent copies, same as the Redis backend.
func NewCartMemoryRepository() domainRepo.CartRepository {
	return &cartMemoryRepository{carts: make(map[uuid.UUID][]byte)}
}

func (r *cartMemoryRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	r.mu.RLock()
	data, ok := r.carts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartMemoryRepository) Save(ctx context.Context, cart *entity.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.carts[cart.ID] = data
	r.mu.Unlock()
	return nil
}

func (r *cartMemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	delete(r.carts, id)
	r.mu.Unlock()
	return nil
}
