package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/apperror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc      *CheckoutService
	products *fakeProductRepo
	orders   *fakeOrderRepo
	mailer   *fakeMailer
}

func newCheckoutFixture(products ...entity.Product) *checkoutFixture {
	productRepo := &fakeProductRepo{products: products}
	orderRepo := &fakeOrderRepo{products: productRepo}
	mailer := &fakeMailer{}

	svc := NewCheckoutService(
		orderRepo,
		productRepo,
		NewShippingService(&fakeShippingRepo{rates: standardRates()}),
		mailer,
		testCheckoutConfig(),
		"https://pay.example.lk/checkout",
		zerolog.Nop(),
	)
	return &checkoutFixture{svc: svc, products: productRepo, orders: orderRepo, mailer: mailer}
}

func validForm(payment enum.PaymentMethod) CheckoutForm {
	return CheckoutForm{
		FirstName: "Nadeesha",
		LastName:  "Perera",
		Address:   "12 Galle Road",
		District:  "Colombo",
		City:      "Colombo 03 - Kollupitiya",
		Phone:     "0771234567",
		Email:     "nadeesha@example.lk",
		Payment:   payment,
	}
}

func physicalLine(p *entity.Product, qty string) CheckoutItemInput {
	return CheckoutItemInput{
		Type:       enum.ItemTypeProduct,
		ProductID:  p.ID,
		VariantKey: p.Variants[0].Key,
		Quantity:   decimal.RequireFromString(qty),
	}
}

func voucherProduct(amountCents int64) entity.Product {
	cat := entity.Category{
		ID:           uuid.New(),
		Name:         "Gift Vouchers",
		Slug:         "gift-vouchers",
		QuantityStep: decimal.NewFromInt(1),
		MinQuantity:  decimal.NewFromInt(1),
		IsVoucher:    true,
	}
	return entity.Product{
		ID:         uuid.New(),
		CategoryID: cat.ID,
		Name:       "Gift Voucher",
		Slug:       "gift-voucher",
		Price:      amountCents,
		Active:     true,
		Category:   cat,
	}
}

func TestPlaceOrderComputesTotalsServerSide(t *testing.T) {
	// qty=2 x Rs. 1000, Kollupitiya urban fee Rs. 350
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	result, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentCOD),
		Items: []CheckoutItemInput{physicalLine(&product, "2")},
		// Declared figures are deliberately wrong; the server must not trust them
		DeclaredTotal:    1,
		DeclaredShipping: 1,
	})
	require.NoError(t, err)
	require.Len(t, f.orders.orders, 1)

	order := f.orders.orders[0]
	assert.Equal(t, int64(200000), order.SubTotal)
	assert.Equal(t, int64(35000), order.ShippingCost)
	assert.Equal(t, int64(235000), order.Total)
	assert.Equal(t, result.OrderNumber, order.OrderNumber)
	assert.Empty(t, result.PaymentURL)

	// Stock decremented
	v := f.products.findVariant(product.Variants[0].ID)
	assert.Equal(t, "8", v.Available().String())
	assert.Equal(t, int64(1), v.Version)
}

func TestPlaceOrderSnapshotsLineItems(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	product.DiscountPercent = 20
	f := newCheckoutFixture(product)

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentBank),
		Items: []CheckoutItemInput{physicalLine(&product, "1.5")},
	})
	require.NoError(t, err)

	item := f.orders.orders[0].Items[0]
	assert.Equal(t, "Handloom Linen", item.ProductName)
	assert.Equal(t, "Natural", item.VariantName)
	assert.Equal(t, int64(80000), item.UnitPrice)
	assert.Equal(t, int64(120000), item.Total)
}

func TestPlaceOrderRequiresBillingFieldsForPhysicalItems(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	form := validForm(enum.PaymentCOD)
	form.Address = ""
	form.City = "  "

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  form,
		Items: []CheckoutItemInput{physicalLine(&product, "1")},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 400, appErr.Code)
	assert.Len(t, appErr.Errors, 2)
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrderVoucherOnlySkipsBillingRequirement(t *testing.T) {
	vp := voucherProduct(250000)
	f := newCheckoutFixture(vp)

	result, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form: CheckoutForm{Payment: enum.PaymentCard, Email: "buyer@example.lk"},
		Items: []CheckoutItemInput{{
			Type:     enum.ItemTypeVoucher,
			Vouchers: []VoucherInput{{ProductID: vp.ID, IsGift: true, FromName: "Amaya", ToName: "Dinithi"}},
		}},
	})
	require.NoError(t, err)

	order := f.orders.orders[0]
	assert.Equal(t, int64(250000), order.SubTotal)
	// Voucher-only orders ship free
	assert.Zero(t, order.ShippingCost)
	assert.NotEmpty(t, result.PaymentURL)
}

func TestPlaceOrderRejectsVouchersWithoutCardPayment(t *testing.T) {
	vp := voucherProduct(250000)
	f := newCheckoutFixture(vp)

	for _, method := range []enum.PaymentMethod{enum.PaymentCOD, enum.PaymentBank} {
		_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
			Form: validForm(method),
			Items: []CheckoutItemInput{{
				Type:     enum.ItemTypeVoucher,
				Vouchers: []VoucherInput{{ProductID: vp.ID}},
			}},
		})
		require.Error(t, err, "payment method %s", method)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	}
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrderMintsOneVoucherPerUnit(t *testing.T) {
	vp := voucherProduct(250000)
	f := newCheckoutFixture(vp)

	result, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form: validForm(enum.PaymentCard),
		Items: []CheckoutItemInput{{
			Type: enum.ItemTypeVoucher,
			Vouchers: []VoucherInput{
				{ProductID: vp.ID, IsGift: true, FromName: "Amaya", ToName: "Dinithi"},
				{ProductID: vp.ID},
				{ProductID: vp.ID},
			},
		}},
	})
	require.NoError(t, err)
	require.Len(t, result.Vouchers, 3)

	codes := make(map[string]bool)
	for _, v := range result.Vouchers {
		assert.Equal(t, result.OrderNumber, v.OrderNumber)
		assert.Equal(t, int64(250000), v.Price)
		codes[v.Code] = true
	}
	assert.Len(t, codes, 3, "every voucher unit gets its own code")
	assert.Equal(t, int64(750000), f.orders.orders[0].SubTotal)
}

func TestPlaceOrderMintsVouchersOnlyFromVoucherProducts(t *testing.T) {
	// A voucher entry naming a physical catalog product would mint a
	// redeemable code with no stock accounting behind it
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form: validForm(enum.PaymentCard),
		Items: []CheckoutItemInput{{
			Type:     enum.ItemTypeVoucher,
			Vouchers: []VoucherInput{{ProductID: product.ID}},
		}},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrderRejectsVoucherProductAsPhysicalLine(t *testing.T) {
	// Voucher products are purchasable only through the voucher flow; a
	// product line against one would bypass code minting entirely
	vp := voucherProduct(250000)
	f := newCheckoutFixture(vp)

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form: validForm(enum.PaymentCard),
		Items: []CheckoutItemInput{{
			Type:       enum.ItemTypeProduct,
			ProductID:  vp.ID,
			VariantKey: "default",
			Quantity:   decimal.NewFromInt(1),
		}},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrderDuplicateSubmission(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)
	f.orders.duplicate = true

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentCOD),
		Items: []CheckoutItemInput{physicalLine(&product, "1")},
	})
	require.Error(t, err)
	assert.Equal(t, 429, apperror.GetAppError(err).Code)
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrderDuplicateGuardRoundsDeclaredTotal(t *testing.T) {
	// 1024.36 has no exact float64 representation; truncation would query
	// 102435 cents and miss a genuine resubmission of a 102436-cent order
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:          validForm(enum.PaymentCOD),
		Items:         []CheckoutItemInput{physicalLine(&product, "1")},
		DeclaredTotal: 1024.36,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(102436), f.orders.duplicateQueryCents)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	f := newCheckoutFixture(fabricProduct("Handloom Linen", 100000, "10", "0"))

	missing := fabricProduct("Ghost", 100000, "10", "0")
	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentCOD),
		Items: []CheckoutItemInput{physicalLine(&missing, "1")},
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestPlaceOrderUnknownVariant(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	line := physicalLine(&product, "1")
	line.VariantKey = "charcoal"
	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentCOD),
		Items: []CheckoutItemInput{line},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "5", "3")
	f := newCheckoutFixture(product)

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentCOD),
		Items: []CheckoutItemInput{physicalLine(&product, "3")},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 409, appErr.Code)
	assert.Contains(t, appErr.Message, "only 2 available")
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrderMergesRepeatedVariantLines(t *testing.T) {
	// Two lines for the same variant must validate and decrement as one
	product := fabricProduct("Handloom Linen", 100000, "5", "0")
	f := newCheckoutFixture(product)

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form: validForm(enum.PaymentCOD),
		Items: []CheckoutItemInput{
			physicalLine(&product, "3"),
			physicalLine(&product, "3"),
		},
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestPlaceOrderVersionConflictSurfacesAsServerError(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	// A concurrent checkout commits between re-validation and commit
	f.orders.commitErr = repository.ErrVersionConflict

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentCOD),
		Items: []CheckoutItemInput{physicalLine(&product, "1")},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 500, appErr.Code)
	assert.Empty(t, f.orders.orders, "losing transaction leaves nothing behind")

	// Stock untouched by the failed attempt
	v := f.products.findVariant(product.Variants[0].ID)
	assert.Equal(t, "10", v.Available().String())
}

func TestPlaceOrderLastUnitRace(t *testing.T) {
	// Two buyers contend for the last meter; the second submission must fail
	// and stock must end at zero, never negative
	product := fabricProduct("Handloom Linen", 100000, "1", "0")
	f := newCheckoutFixture(product)

	input := func() *PlaceOrderInput {
		return &PlaceOrderInput{
			Form:  validForm(enum.PaymentCOD),
			Items: []CheckoutItemInput{physicalLine(&product, "1")},
		}
	}

	_, err := f.svc.PlaceOrder(context.Background(), input())
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(context.Background(), input())
	require.Error(t, err)

	v := f.products.findVariant(product.Variants[0].ID)
	assert.True(t, v.Available().IsZero())
	assert.Len(t, f.orders.orders, 1)
}

func TestPlaceOrderCardReturnsPaymentURL(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	result, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentCard),
		Items: []CheckoutItemInput{physicalLine(&product, "2")},
	})
	require.NoError(t, err)
	assert.Contains(t, result.PaymentURL, "https://pay.example.lk/checkout?order="+result.OrderNumber)
	assert.Contains(t, result.PaymentURL, "amount=2350.00")
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form: validForm(enum.PaymentCOD),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	f := newCheckoutFixture(product)

	_, err := f.svc.PlaceOrder(context.Background(), &PlaceOrderInput{
		Form:  validForm(enum.PaymentMethod("CHEQUE")),
		Items: []CheckoutItemInput{physicalLine(&product, "1")},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
