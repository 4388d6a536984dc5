package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	domainRepo "github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

type cartRedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRedisRepository creates a Redis-backed cart store. Carts expire
// after the configured TTL of inactivity.
func NewCartRedisRepository(client *redis.Client, ttl time.Duration) domainRepo.CartRepository {
	return &cartRedisRepository{client: client, ttl: ttl}
}

func cartKey(id uuid.UUID) string {
	return "cart:" + id.String()
}

func (r *cartRedisRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

func (r *cartRedisRepository) Save(ctx context.Context, cart *entity.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *cartRedisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, cartKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
