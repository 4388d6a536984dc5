package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lankaweave/storefront-api/internal/domain/entity"
	domainRepo "github.com/lankaweave/storefront-api/internal/domain/repository"
	"gorm.io/gorm"
)

type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) domainRepo.VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) ListTemplates(ctx context.Context) ([]entity.VoucherTemplate, error) {
	var templates []entity.VoucherTemplate
	err := r.db.WithContext(ctx).Order("sort_order").Find(&templates).Error
	return templates, err
}

func (r *voucherRepository) GetByOrderNumber(ctx context.Context, orderNumber string) ([]entity.Voucher, error) {
	var vouchers []entity.Voucher
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("created_at").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := r.db.WithContext(ctx).First(&voucher, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

// Redeem flips the redeemed flag exactly once per code
func (r *voucherRepository) Redeem(ctx context.Context, code string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Voucher{}).
		Where("code = ? AND redeemed = ?", code, false).
		Updates(map[string]interface{}{
			"redeemed":    true,
			"redeemed_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
