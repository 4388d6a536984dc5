package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartService is the cart state container: every mutation loads the cart
// document from the injected backend, applies the rule set and saves it
// back. Stock validation runs against the availability captured into each
// line at add-time; only checkout reconciles with server truth.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new cart service
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CreateCart creates and persists an empty cart
func (s *CartService) CreateCart(ctx context.Context) (*entity.Cart, error) {
	cart := entity.NewCart()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart retrieves a cart by ID
func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*entity.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperror.NewNotFoundError("Cart")
	}
	return cart, nil
}

// AddItem adds a product variant to the cart. If the same variant is already
// in the cart the quantity is replaced, not added to. The requested quantity
// is snapped to the category step, raised to the category minimum, and
// rejected outright when it exceeds the stock available right now.
func (s *CartService) AddItem(ctx context.Context, cartID, productID uuid.UUID, variantKey string, quantity decimal.Decimal) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	variant := product.FindVariant(variantKey)
	if variant == nil {
		return nil, apperror.NewBadRequestError("Unknown product variant")
	}

	available := variant.Available()
	if available.Sign() <= 0 {
		return nil, apperror.NewConflictError(fmt.Sprintf("%s - %s is out of stock", product.Name, variant.Name))
	}

	quantity = SnapQuantity(quantity, product.Category.QuantityStep, product.Category.MinQuantity)
	if quantity.GreaterThan(available) {
		return nil, apperror.NewConflictError(fmt.Sprintf("Only %s available", available))
	}

	item := entity.CartItem{
		ItemKey:         entity.CartItemKey(productID, variantKey),
		ProductID:       productID,
		ProductName:     product.Name,
		ProductSlug:     product.Slug,
		Price:           product.Price,
		DiscountPercent: product.DiscountPercent,
		Image:           product.Image,
		VariantID:       variant.ID,
		VariantKey:      variant.Key,
		VariantName:     variant.Name,
		AvailableStock:  available,
		QuantityStep:    product.Category.QuantityStep,
		MinQuantity:     product.Category.MinQuantity,
		Quantity:        quantity,
		AddedAt:         time.Now(),
	}

	if idx := cart.FindItem(item.ItemKey); idx >= 0 {
		cart.Items[idx] = item
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItemQuantity changes a line's quantity. Zero or negative quantities
// are rejected rather than treated as removal; callers must delete lines
// explicitly.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID uuid.UUID, itemKey string, quantity decimal.Decimal) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(itemKey)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	if quantity.Sign() <= 0 {
		return nil, apperror.NewBadRequestError("Quantity must be positive")
	}

	item := &cart.Items[idx]
	quantity = SnapQuantity(quantity, item.QuantityStep, item.MinQuantity)
	if quantity.GreaterThan(item.AvailableStock) {
		return nil, apperror.NewConflictError(fmt.Sprintf("Only %s available", item.AvailableStock))
	}

	item.Quantity = quantity

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// DeleteCartProduct removes a line from the cart
func (s *CartService) DeleteCartProduct(ctx context.Context, cartID uuid.UUID, itemKey string) (*entity.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(itemKey)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ResetCart clears all lines
func (s *CartService) ResetCart(ctx context.Context, cartID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, cartID)
}

// SnapQuantity rounds the quantity to the category step, applies the
// two-decimal rounding that keeps fractional meters free of float drift, and
// raises it to the category minimum.
func SnapQuantity(quantity, step, min decimal.Decimal) decimal.Decimal {
	if step.Sign() > 0 {
		quantity = quantity.Div(step).Round(0).Mul(step)
	}
	quantity = quantity.Round(2)
	if quantity.LessThan(min) {
		quantity = min
	}
	return quantity
}
