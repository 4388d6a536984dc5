package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/config"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/apperror"
	"github.com/lankaweave/storefront-api/pkg/email"
	"github.com/lankaweave/storefront-api/pkg/vouchercode"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderMailer dispatches the post-commit notification emails
type OrderMailer interface {
	Enabled() bool
	SendOrderConfirmation(data email.OrderEmailData) error
	SendOrderNotification(data email.OrderEmailData) error
}

// CheckoutService runs the order-placement transaction: validation, duplicate
// guard, authoritative stock re-validation, snapshot construction, the
// atomic commit with version-conditioned stock decrements, and best-effort
// email dispatch.
type CheckoutService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	shipping    *ShippingService
	mailer      OrderMailer
	cfg         config.CheckoutConfig
	gatewayURL  string
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	shipping *ShippingService,
	mailer OrderMailer,
	cfg config.CheckoutConfig,
	gatewayURL string,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		shipping:    shipping,
		mailer:      mailer,
		cfg:         cfg,
		gatewayURL:  gatewayURL,
		logger:      logger,
	}
}

// CheckoutForm is the billing form submitted with the order
type CheckoutForm struct {
	FirstName string
	LastName  string
	Address   string
	District  string
	City      string
	Phone     string
	Email     string
	Notes     string
	Payment   enum.PaymentMethod
}

// VoucherInput is one gift-voucher unit inside a voucher item group
type VoucherInput struct {
	ProductID uuid.UUID
	IsGift    bool
	FromName  string
	ToName    string
}

// CheckoutItemInput is one submitted cart line: either a physical product
// line or a voucher group expanded to one entry per unit purchased
type CheckoutItemInput struct {
	Type       enum.ItemType
	ProductID  uuid.UUID
	VariantKey string
	Quantity   decimal.Decimal
	Vouchers   []VoucherInput
}

// PlaceOrderInput is everything the checkout endpoint receives
type PlaceOrderInput struct {
	Form             CheckoutForm
	Items            []CheckoutItemInput
	DeclaredTotal    float64
	DeclaredShipping float64
}

// PlaceOrderResult is returned to the client so it can render the
// confirmation (vouchers included) without a second round trip
type PlaceOrderResult struct {
	OrderID     uuid.UUID
	OrderNumber string
	Vouchers    []entity.Voucher
	PaymentURL  string
}

// PlaceOrder executes the checkout pipeline. Validation is fail-fast with
// no partial effects; all writes happen in one transaction at the end.
func (s *CheckoutService) PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*PlaceOrderResult, error) {
	hasPhysical := false
	hasVoucher := false
	for _, item := range input.Items {
		switch item.Type {
		case enum.ItemTypeProduct:
			hasPhysical = true
		case enum.ItemTypeVoucher:
			hasVoucher = true
		}
	}

	if err := validateForm(&input.Form, input.Items, hasPhysical); err != nil {
		return nil, err
	}

	// Vouchers are redeemable-on-demand digital instruments; they require
	// guaranteed upfront settlement
	if hasVoucher && !input.Form.Payment.RequiresGateway() {
		return nil, apperror.NewBadRequestError("Orders containing gift vouchers must be paid by card")
	}

	// Heuristic duplicate guard: same phone, same declared total, within the
	// window. Known to false-positive on legitimately identical orders.
	if input.Form.Phone != "" {
		declaredCents := int64(math.Round(input.DeclaredTotal * 100))
		dup, err := s.orderRepo.HasRecentDuplicate(ctx, input.Form.Phone, declaredCents, s.cfg.DuplicateWindow)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, apperror.NewDuplicateSubmissionError("An identical order was just placed. Please wait a moment before retrying.")
		}
	}

	order, decrements, err := s.buildOrder(ctx, input, hasPhysical)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.CommitCheckout(ctx, order, decrements); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			// A concurrent checkout won the race for this stock. The loser
			// sees a generic failure and must resubmit, which re-runs the
			// full re-validation.
			s.logger.Warn().Str("order_number", order.OrderNumber).Msg("checkout lost stock race")
			return nil, apperror.NewAppError(500, "Failed to place order. Please try again.")
		}
		return nil, err
	}

	s.dispatchEmails(order)

	result := &PlaceOrderResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Vouchers:    order.Vouchers,
	}
	if order.PaymentMethod.RequiresGateway() {
		result.PaymentURL = fmt.Sprintf("%s?order=%s&amount=%.2f",
			s.gatewayURL, order.OrderNumber, float64(order.Total)/100)
	}
	return result, nil
}

func validateForm(form *CheckoutForm, items []CheckoutItemInput, hasPhysical bool) error {
	if len(items) == 0 {
		return apperror.NewBadRequestError("Cart is empty")
	}

	if !form.Payment.Valid() {
		return apperror.NewBadRequestError("Invalid payment method")
	}

	if !hasPhysical {
		return nil
	}

	var missing []apperror.FieldError
	required := []struct {
		field string
		value string
	}{
		{"firstName", form.FirstName},
		{"lastName", form.LastName},
		{"address", form.Address},
		{"district", form.District},
		{"city", form.City},
		{"phone", form.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, apperror.FieldError{Field: f.field, Message: "is required"})
		}
	}
	if len(missing) > 0 {
		return apperror.NewValidationError(missing)
	}
	return nil
}

// buildOrder re-validates every line against authoritative stock and
// assembles the order document with frozen snapshots. Client-supplied stock
// figures and prices are never trusted; only the declared total feeds the
// duplicate heuristic.
func (s *CheckoutService) buildOrder(ctx context.Context, input *PlaceOrderInput, hasPhysical bool) (*entity.Order, []repository.StockDecrement, error) {
	productIDs := collectProductIDs(input.Items)

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	orderNumber := vouchercode.OrderNumber(s.cfg.OrderNumberPrefix)

	var subTotal int64
	items := make([]entity.OrderItem, 0, len(input.Items))
	vouchers := make([]entity.Voucher, 0)
	// Merge per variant so a malformed payload with the same variant on two
	// lines cannot trip its own version condition
	decrementIdx := make(map[uuid.UUID]int)
	decrements := make([]repository.StockDecrement, 0)

	for _, item := range input.Items {
		switch item.Type {
		case enum.ItemTypeProduct:
			product, exists := productMap[item.ProductID]
			if !exists {
				return nil, nil, apperror.NewNotFoundError("Product")
			}
			if product.Category.IsVoucher {
				return nil, nil, apperror.NewBadRequestError(fmt.Sprintf("%s must be purchased as a gift voucher", product.Name))
			}

			variant := product.FindVariant(item.VariantKey)
			if variant == nil {
				return nil, nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown variant for %s", product.Name))
			}

			if item.Quantity.Sign() <= 0 {
				return nil, nil, apperror.NewBadRequestError("Quantity must be positive")
			}

			requested := item.Quantity
			if idx, ok := decrementIdx[variant.ID]; ok {
				requested = requested.Add(decrements[idx].Quantity)
			}
			if variant.Available().LessThan(requested) {
				return nil, nil, apperror.NewConflictError(fmt.Sprintf(
					"Insufficient stock for %s - %s: only %s available",
					product.Name, variant.Name, variant.Available()))
			}

			if idx, ok := decrementIdx[variant.ID]; ok {
				decrements[idx].Quantity = requested
			} else {
				decrementIdx[variant.ID] = len(decrements)
				decrements = append(decrements, repository.StockDecrement{
					VariantID: variant.ID,
					Quantity:  item.Quantity,
					Version:   variant.Version,
				})
			}

			unitPrice := product.DiscountedPriceCents()
			lineTotal := item.Quantity.Mul(decimal.NewFromInt(unitPrice)).Round(0).IntPart()
			subTotal += lineTotal

			variantID := variant.ID
			items = append(items, entity.OrderItem{
				ItemType:    enum.ItemTypeProduct,
				ProductID:   product.ID,
				ProductName: product.Name,
				VariantID:   &variantID,
				VariantKey:  variant.Key,
				VariantName: variant.Name,
				Image:       product.Image,
				Quantity:    item.Quantity,
				UnitPrice:   unitPrice,
				Total:       lineTotal,
			})

		case enum.ItemTypeVoucher:
			if len(item.Vouchers) == 0 {
				return nil, nil, apperror.NewBadRequestError("Voucher item has no voucher entries")
			}
			for _, v := range item.Vouchers {
				product, exists := productMap[v.ProductID]
				if !exists {
					return nil, nil, apperror.NewNotFoundError("Voucher product")
				}
				// Codes are only minted against voucher-category products;
				// physical catalog products carry stock accounting instead
				if !product.Category.IsVoucher {
					return nil, nil, apperror.NewBadRequestError(fmt.Sprintf("%s is not a gift voucher", product.Name))
				}

				lineTotal := product.Price
				subTotal += lineTotal

				items = append(items, entity.OrderItem{
					ItemType:    enum.ItemTypeVoucher,
					ProductID:   product.ID,
					ProductName: product.Name,
					Image:       product.Image,
					Quantity:    decimal.NewFromInt(1),
					UnitPrice:   product.Price,
					Total:       lineTotal,
				})

				vouchers = append(vouchers, entity.Voucher{
					OrderNumber: orderNumber,
					ProductID:   product.ID,
					Code:        vouchercode.Generate(s.cfg.VoucherPrefix),
					IsGift:      v.IsGift,
					FromName:    v.FromName,
					ToName:      v.ToName,
					Price:       product.Price,
				})
			}

		default:
			return nil, nil, apperror.NewBadRequestError("Unknown item type")
		}
	}

	shippingCost, err := s.shipping.Fee(ctx, input.Form.District, input.Form.City, hasPhysical)
	if err != nil {
		return nil, nil, err
	}

	order := &entity.Order{
		OrderNumber:   orderNumber,
		OrderStatus:   enum.OrderStatusPending,
		FirstName:     input.Form.FirstName,
		LastName:      input.Form.LastName,
		Address:       input.Form.Address,
		District:      input.Form.District,
		City:          input.Form.City,
		Phone:         input.Form.Phone,
		Email:         input.Form.Email,
		Notes:         input.Form.Notes,
		PaymentMethod: input.Form.Payment,
		SubTotal:      subTotal,
		ShippingCost:  shippingCost,
		Total:         subTotal + shippingCost,
		Items:         items,
		Vouchers:      vouchers,
	}
	return order, decrements, nil
}

func collectProductIDs(items []CheckoutItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case enum.ItemTypeProduct:
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		case enum.ItemTypeVoucher:
			for _, v := range item.Vouchers {
				if !seen[v.ProductID] {
					seen[v.ProductID] = true
					ids = append(ids, v.ProductID)
				}
			}
		}
	}
	return ids
}

// dispatchEmails sends the confirmation and ops notification off the request
// path. Failures are logged and never fail the committed order.
func (s *CheckoutService) dispatchEmails(order *entity.Order) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return
	}

	data := orderEmailData(order)

	go func() {
		if order.Email != "" {
			if err := s.mailer.SendOrderConfirmation(data); err != nil {
				s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to send order confirmation")
			}
		}
		if err := s.mailer.SendOrderNotification(data); err != nil {
			s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to send order notification")
		}
	}()
}

func orderEmailData(order *entity.Order) email.OrderEmailData {
	lines := make([]email.OrderEmailLine, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.ProductName
		if item.VariantName != "" {
			name += " - " + item.VariantName
		}
		lines = append(lines, email.OrderEmailLine{
			Name:     name,
			Quantity: item.Quantity.String(),
			Total:    fmt.Sprintf("%.2f", float64(item.Total)/100),
		})
	}

	codes := make([]string, 0, len(order.Vouchers))
	for _, v := range order.Vouchers {
		codes = append(codes, v.Code)
	}

	address := ""
	if order.HasPhysicalItems() {
		address = fmt.Sprintf("%s, %s, %s", order.Address, order.City, order.District)
	}

	return email.OrderEmailData{
		OrderNumber:   order.OrderNumber,
		CustomerName:  strings.TrimSpace(order.FirstName + " " + order.LastName),
		CustomerEmail: order.Email,
		Phone:         order.Phone,
		Address:       address,
		PaymentMethod: string(order.PaymentMethod),
		Lines:         lines,
		VoucherCodes:  codes,
		SubTotal:      fmt.Sprintf("%.2f", float64(order.SubTotal)/100),
		ShippingCost:  fmt.Sprintf("%.2f", float64(order.ShippingCost)/100),
		Total:         fmt.Sprintf("%.2f", float64(order.Total)/100),
	}
}
