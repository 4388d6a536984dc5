package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	domainRepo "github.com/lankaweave/storefront-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// CommitCheckout persists the order and applies the stock decrements as a
// single all-or-nothing transaction. Each decrement is conditioned on the
// variant version captured at re-validation time; a zero-row update means a
// concurrent checkout got there first and everything rolls back.
func (r *orderRepository) CommitCheckout(ctx context.Context, order *entity.Order, decrements []domainRepo.StockDecrement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, d := range decrements {
			result := tx.Model(&entity.Variant{}).
				Where("id = ? AND version = ? AND opening_stock - stock_out >= ?",
					d.VariantID, d.Version, d.Quantity).
				Updates(map[string]interface{}{
					"stock_out": gorm.Expr("stock_out + ?", d.Quantity),
					"version":   gorm.Expr("version + 1"),
				})

			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainRepo.ErrVersionConflict
			}
		}

		return nil
	})
}

func (r *orderRepository) HasRecentDuplicate(ctx context.Context, phone string, totalCents int64, window time.Duration) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("phone = ? AND total = ? AND created_at > ?",
			phone, totalCents, time.Now().Add(-window)).
		Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Vouchers").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Vouchers").
		First(&order, "order_number = ?", orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if params.Status != nil {
		query = query.Where("order_status = ?", *params.Status)
	}

	if params.Phone != "" {
		query = query.Where("phone = ?", params.Phone)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").Preload("Vouchers").
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("order_status", status).Error
}

// CancelAndRestock cancels the order and restores variant stock, guarded by
// the stock_restored flag: whichever call flips the flag performs the
// compensation, every later call is a stock no-op.
func (r *orderRepository) CancelAndRestock(ctx context.Context, order *entity.Order) (bool, error) {
	restored := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Order{}).
			Where("id = ? AND stock_restored = ?", order.ID, false).
			Updates(map[string]interface{}{
				"order_status":   enum.OrderStatusCancelled,
				"stock_restored": true,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already compensated by an earlier cancellation
			return nil
		}
		restored = true

		for _, item := range order.Items {
			if item.ItemType != enum.ItemTypeProduct || item.VariantID == nil {
				continue
			}
			// Clamped so stock_out can never go negative
			if err := tx.Model(&entity.Variant{}).
				Where("id = ?", *item.VariantID).
				Updates(map[string]interface{}{
					"stock_out": gorm.Expr("GREATEST(stock_out - ?, 0)", item.Quantity),
					"version":   gorm.Expr("version + 1"),
				}).Error; err != nil {
				return err
			}
		}

		// Void the order's voucher codes
		return tx.Model(&entity.Voucher{}).
			Where("order_id = ?", order.ID).
			Update("redeemed", true).Error
	})

	return restored, err
}
