package service

import (
	"context"

	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/apperror"
)

// VoucherService handles gift-voucher lookup and redemption
type VoucherService struct {
	voucherRepo repository.VoucherRepository
	orderRepo   repository.OrderRepository
}

// NewVoucherService creates a new voucher service
func NewVoucherService(voucherRepo repository.VoucherRepository, orderRepo repository.OrderRepository) *VoucherService {
	return &VoucherService{
		voucherRepo: voucherRepo,
		orderRepo:   orderRepo,
	}
}

// ListTemplates returns the purchasable voucher denominations, ordered for
// the storefront voucher page
func (s *VoucherService) ListTemplates(ctx context.Context) ([]entity.VoucherTemplate, error) {
	return s.voucherRepo.ListTemplates(ctx)
}

// OrderVouchersResult is the confirmation-page payload: the vouchers minted
// by an order plus flags the page uses to pick its layout
type OrderVouchersResult struct {
	OrderNumber      string           `json:"order_number"`
	Vouchers         []entity.Voucher `json:"vouchers"`
	HasPhysicalItems bool             `json:"has_physical_items"`
	HasVouchers      bool             `json:"has_vouchers"`
}

// OrderVouchers retrieves the vouchers minted by an order, for the
// post-checkout confirmation page
func (s *VoucherService) OrderVouchers(ctx context.Context, orderNumber string) (*OrderVouchersResult, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	vouchers, err := s.voucherRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	return &OrderVouchersResult{
		OrderNumber:      order.OrderNumber,
		Vouchers:         vouchers,
		HasPhysicalItems: order.HasPhysicalItems(),
		HasVouchers:      order.HasVouchers(),
	}, nil
}

// GetVoucher retrieves a voucher by its code
func (s *VoucherService) GetVoucher(ctx context.Context, code string) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	return voucher, nil
}

// Redeem marks a voucher code as used. A code already redeemed, or voided by
// cancelling its order, is rejected.
func (s *VoucherService) Redeem(ctx context.Context, code string) (*entity.Voucher, error) {
	voucher, err := s.GetVoucher(ctx, code)
	if err != nil {
		return nil, err
	}
	if voucher.Redeemed {
		return nil, apperror.NewConflictError("Voucher has already been redeemed")
	}

	redeemed, err := s.voucherRepo.Redeem(ctx, code)
	if err != nil {
		return nil, err
	}
	if !redeemed {
		// Lost a race with a concurrent redemption
		return nil, apperror.NewConflictError("Voucher has already been redeemed")
	}

	return s.GetVoucher(ctx, code)
}
