package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	"github.com/lankaweave/storefront-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ErrVersionConflict is returned by CommitCheckout when a variant's version
// no longer matches the one captured at re-validation time: another checkout
// committed in between and the whole transaction was rolled back.
var ErrVersionConflict = errors.New("variant version conflict")

// StockDecrement is one version-conditioned stock_out increment applied
// inside the checkout transaction.
type StockDecrement struct {
	VariantID uuid.UUID
	Quantity  decimal.Decimal
	// Version read during stock re-validation; the decrement only applies
	// if the row still carries it
	Version int64
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// CommitCheckout persists the order (items and vouchers included) and
	// applies every stock decrement in a single all-or-nothing transaction.
	// Returns ErrVersionConflict if any variant was concurrently mutated.
	CommitCheckout(ctx context.Context, order *entity.Order, decrements []StockDecrement) error
	// HasRecentDuplicate reports whether an order with the same phone and
	// total was placed within the window
	HasRecentDuplicate(ctx context.Context, phone string, totalCents int64, window time.Duration) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	// CancelAndRestock marks the order cancelled and restores stock for its
	// physical lines, guarded by the stock_restored flag so invoking it twice
	// restores at most once. Returns whether this call performed the restore.
	CancelAndRestock(ctx context.Context, order *entity.Order) (bool, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.OrderStatus
	Phone      string
	StartDate  *time.Time
	EndDate    *time.Time
}
