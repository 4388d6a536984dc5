package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/config"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/email"
	"github.com/shopspring/decimal"
)

// fakeProductRepo serves a fixed product list from memory
type fakeProductRepo struct {
	products []entity.Product
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			return &r.products[i], nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []entity.Product
	for i := range r.products {
		if want[r.products[i].ID] {
			out = append(out, r.products[i])
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*entity.Product, error) {
	for i := range r.products {
		if r.products[i].Slug == slug {
			return &r.products[i], nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return r.products, int64(len(r.products)), nil
}

func (r *fakeProductRepo) ListVariants(_ context.Context) ([]entity.Variant, error) {
	var out []entity.Variant
	for i := range r.products {
		for _, v := range r.products[i].Variants {
			v.Product = r.products[i]
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) findVariant(id uuid.UUID) *entity.Variant {
	for i := range r.products {
		for j := range r.products[i].Variants {
			if r.products[i].Variants[j].ID == id {
				return &r.products[i].Variants[j]
			}
		}
	}
	return nil
}

// fakeOrderRepo emulates the transactional order store, including the
// version-conditioned stock decrements and the guarded cancellation, against
// the products held by a fakeProductRepo.
type fakeOrderRepo struct {
	products            *fakeProductRepo
	orders              []*entity.Order
	duplicate           bool
	commitErr           error
	duplicateQueryCents int64
}

func (r *fakeOrderRepo) CommitCheckout(_ context.Context, order *entity.Order, decrements []repository.StockDecrement) error {
	if r.commitErr != nil {
		return r.commitErr
	}

	// All-or-nothing: verify every condition before mutating anything
	for _, d := range decrements {
		v := r.products.findVariant(d.VariantID)
		if v == nil || v.Version != d.Version || v.Available().LessThan(d.Quantity) {
			return repository.ErrVersionConflict
		}
	}
	for _, d := range decrements {
		v := r.products.findVariant(d.VariantID)
		v.StockOut = v.StockOut.Add(d.Quantity)
		v.Version++
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	for i := range order.Vouchers {
		order.Vouchers[i].OrderID = order.ID
	}
	r.orders = append(r.orders, order)
	return nil
}

func (r *fakeOrderRepo) HasRecentDuplicate(_ context.Context, _ string, totalCents int64, _ time.Duration) (bool, error) {
	r.duplicateQueryCents = totalCents
	return r.duplicate, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetByOrderNumber(_ context.Context, orderNumber string) (*entity.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	out := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.OrderStatus) error {
	for _, o := range r.orders {
		if o.ID == id {
			o.OrderStatus = status
		}
	}
	return nil
}

func (r *fakeOrderRepo) CancelAndRestock(_ context.Context, order *entity.Order) (bool, error) {
	stored, _ := r.GetByID(context.Background(), order.ID)
	if stored == nil || stored.StockRestored {
		return false, nil
	}

	stored.OrderStatus = enum.OrderStatusCancelled
	stored.StockRestored = true

	for _, item := range stored.Items {
		if item.ItemType != enum.ItemTypeProduct || item.VariantID == nil {
			continue
		}
		v := r.products.findVariant(*item.VariantID)
		if v == nil {
			continue
		}
		v.StockOut = v.StockOut.Sub(item.Quantity)
		if v.StockOut.IsNegative() {
			v.StockOut = decimal.Zero
		}
		v.Version++
	}

	for i := range stored.Vouchers {
		stored.Vouchers[i].Redeemed = true
	}
	return true, nil
}

// fakeShippingRepo serves a fixed rate table
type fakeShippingRepo struct {
	rates []entity.ShippingRate
}

func (r *fakeShippingRepo) ListRates(_ context.Context) ([]entity.ShippingRate, error) {
	return r.rates, nil
}

// fakeMailer records dispatched emails
type fakeMailer struct {
	confirmations []email.OrderEmailData
	notifications []email.OrderEmailData
}

func (m *fakeMailer) Enabled() bool { return true }

func (m *fakeMailer) SendOrderConfirmation(data email.OrderEmailData) error {
	m.confirmations = append(m.confirmations, data)
	return nil
}

func (m *fakeMailer) SendOrderNotification(data email.OrderEmailData) error {
	m.notifications = append(m.notifications, data)
	return nil
}

// test fixture helpers

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		DuplicateWindow:   30 * time.Second,
		OrderNumberPrefix: "LW",
		VoucherPrefix:     "GV",
	}
}

func fabricCategory() entity.Category {
	return entity.Category{
		ID:           uuid.New(),
		Name:         "Fabrics",
		Slug:         "fabrics",
		QuantityStep: decimal.RequireFromString("0.25"),
		MinQuantity:  decimal.RequireFromString("1"),
	}
}

func fabricProduct(name string, priceCents int64, opening, out string) entity.Product {
	cat := fabricCategory()
	p := entity.Product{
		ID:         uuid.New(),
		CategoryID: cat.ID,
		Name:       name,
		Slug:       name,
		Price:      priceCents,
		Active:     true,
		Category:   cat,
	}
	p.Variants = []entity.Variant{{
		ID:           uuid.New(),
		ProductID:    p.ID,
		Key:          "natural",
		Name:         "Natural",
		OpeningStock: decimal.RequireFromString(opening),
		StockOut:     decimal.RequireFromString(out),
	}}
	return p
}

func standardRates() []entity.ShippingRate {
	return []entity.ShippingRate{
		{District: "Colombo", City: "Colombo 03 - Kollupitiya", Tier: entity.ShippingTierUrban, Fee: 35000},
		{District: "Colombo", Tier: entity.ShippingTierSuburb, Fee: 45000},
		{Tier: entity.ShippingTierOther, Fee: 55000},
	}
}
