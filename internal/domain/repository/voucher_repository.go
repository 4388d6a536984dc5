package repository

import (
	"context"

	"github.com/lankaweave/storefront-api/internal/domain/entity"
)

// VoucherRepository defines the interface for voucher data operations
type VoucherRepository interface {
	ListTemplates(ctx context.Context) ([]entity.VoucherTemplate, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) ([]entity.Voucher, error)
	GetByCode(ctx context.Context, code string) (*entity.Voucher, error)
	// Redeem flips the redeemed flag, guarded so a code can only be redeemed
	// once. Returns whether this call performed the redemption.
	Redeem(ctx context.Context, code string) (bool, error)
}
