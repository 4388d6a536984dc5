package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/apperror"
	"github.com/lankaweave/storefront-api/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderService handles order administration: listing, status progression,
// and the cancellation compensation.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// ListOrders returns a paginated, filtered order listing
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, *pagination.Pagination, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return orders, meta, nil
}

// GetOrder retrieves an order with its items and vouchers
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// UpdateStatus advances an order one step along the fulfilment pipeline.
// Cancellation goes through CancelOrder, not here, because it carries the
// stock compensation.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	if status == enum.OrderStatusCancelled {
		return apperror.NewBadRequestError("Use the cancel endpoint to cancel an order")
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	if !order.OrderStatus.CanTransitionTo(status) {
		return apperror.NewBadRequestError("Invalid status transition from " + order.OrderStatus.String() + " to " + status.String())
	}

	return s.orderRepo.UpdateStatus(ctx, id, status)
}

// CancelOrder cancels an order, restores the stock its physical lines
// consumed, and voids any vouchers it minted. Safe to call repeatedly; the
// compensation runs at most once.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.OrderStatus.CanTransitionTo(enum.OrderStatusCancelled) {
		return nil, apperror.NewConflictError("Order can no longer be cancelled")
	}

	restored, err := s.orderRepo.CancelAndRestock(ctx, order)
	if err != nil {
		return nil, err
	}
	if restored {
		s.logger.Info().
			Str("order_number", order.OrderNumber).
			Msg("order cancelled, stock restored")
	}

	return s.GetOrder(ctx, id)
}

// StockReportLine is one variant's stock position in the admin report
type StockReportLine struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	VariantID    uuid.UUID       `json:"variant_id"`
	VariantKey   string          `json:"variant_key"`
	VariantName  string          `json:"variant_name"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	StockOut     decimal.Decimal `json:"stock_out"`
	Available    decimal.Decimal `json:"available"`
}

// StockReport returns the current stock position of every variant
func (s *OrderService) StockReport(ctx context.Context) ([]StockReportLine, error) {
	variants, err := s.productRepo.ListVariants(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]StockReportLine, 0, len(variants))
	for _, v := range variants {
		lines = append(lines, StockReportLine{
			ProductID:    v.ProductID,
			ProductName:  v.Product.Name,
			VariantID:    v.ID,
			VariantKey:   v.Key,
			VariantName:  v.Name,
			OpeningStock: v.OpeningStock,
			StockOut:     v.StockOut,
			Available:    v.Available(),
		})
	}
	return lines, nil
}
