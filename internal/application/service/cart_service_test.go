package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	infraRepo "github.com/lankaweave/storefront-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T, products ...entity.Product) (*CartService, *entity.Cart) {
	t.Helper()
	svc := NewCartService(infraRepo.NewCartMemoryRepository(), &fakeProductRepo{products: products})
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	return svc, cart
}

func TestAddItemRejectsWhenQuantityExceedsAvailable(t *testing.T) {
	// openingStock=5, stockOut=3: only 2 available
	product := fabricProduct("Handloom Linen", 100000, "5", "3")
	svc, cart := newCartFixture(t, product)

	_, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only 2 available")

	// Cart unchanged
	got, err := svc.GetCart(context.Background(), cart.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestAddItemRejectsOutOfStockVariant(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "5", "5")
	svc, cart := newCartFixture(t, product)

	_, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of stock")
}

func TestAddItemReplacesExistingLine(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	svc, cart := newCartFixture(t, product)

	_, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(2))
	require.NoError(t, err)

	// Adding the same variant replaces the quantity, it does not accumulate
	got, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(3))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestAddItemSnapsFabricQuantities(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	svc, cart := newCartFixture(t, product)

	// 2.30 snaps to the nearest 0.25 step
	got, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.RequireFromString("2.30"))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "2.25", got.Items[0].Quantity.StringFixed(2))
}

func TestAddItemEnforcesMinimumQuantity(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	svc, cart := newCartFixture(t, product)

	got, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.RequireFromString("0.25"))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "1.00", got.Items[0].Quantity.StringFixed(2))
}

func TestAddItemUnknownVariant(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	svc, cart := newCartFixture(t, product)

	_, err := svc.AddItem(context.Background(), cart.ID, product.ID, "charcoal", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant")
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, cart := newCartFixture(t, fabricProduct("Handloom Linen", 100000, "10", "0"))

	_, err := svc.AddItem(context.Background(), cart.ID, uuid.New(), "natural", decimal.NewFromInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdateItemQuantityValidatesAgainstSnapshot(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "5", "0")
	svc, cart := newCartFixture(t, product)

	added, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(2))
	require.NoError(t, err)
	itemKey := added.Items[0].ItemKey

	// Within the add-time snapshot
	updated, err := svc.UpdateItemQuantity(context.Background(), cart.ID, itemKey, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, updated.Items[0].Quantity.Equal(decimal.NewFromInt(5)))

	// Beyond it
	_, err = svc.UpdateItemQuantity(context.Background(), cart.ID, itemKey, decimal.NewFromInt(6))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only 5 available")
}

func TestUpdateItemQuantityRejectsNonPositive(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "5", "0")
	svc, cart := newCartFixture(t, product)

	added, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(2))
	require.NoError(t, err)

	// Zero is not removal; callers must delete explicitly
	_, err = svc.UpdateItemQuantity(context.Background(), cart.ID, added.Items[0].ItemKey, decimal.Zero)
	require.Error(t, err)

	got, err := svc.GetCart(context.Background(), cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestDeleteCartProductRemovesLine(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "5", "0")
	svc, cart := newCartFixture(t, product)

	added, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(2))
	require.NoError(t, err)

	got, err := svc.DeleteCartProduct(context.Background(), cart.ID, added.Items[0].ItemKey)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestResetCartDestroysDocument(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "5", "0")
	svc, cart := newCartFixture(t, product)

	_, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.NewFromInt(2))
	require.NoError(t, err)

	require.NoError(t, svc.ResetCart(context.Background(), cart.ID))

	_, err = svc.GetCart(context.Background(), cart.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCartSubtotalUsesDiscountedPrices(t *testing.T) {
	product := fabricProduct("Handloom Linen", 100000, "10", "0")
	product.DiscountPercent = 10
	svc, cart := newCartFixture(t, product)

	got, err := svc.AddItem(context.Background(), cart.ID, product.ID, "natural", decimal.RequireFromString("2.5"))
	require.NoError(t, err)

	// 2.5m x Rs. 900.00 discounted
	assert.Equal(t, int64(225000), got.SubtotalCents())
}

func TestSnapQuantity(t *testing.T) {
	step := decimal.RequireFromString("0.25")
	min := decimal.NewFromInt(1)

	cases := []struct {
		in   string
		want string
	}{
		{"1.30", "1.25"},
		{"1.40", "1.50"},
		{"2.125", "2.25"},
		{"0.25", "1"},
		{"0", "1"},
		{"3", "3"},
	}
	for _, tc := range cases {
		got := SnapQuantity(decimal.RequireFromString(tc.in), step, min)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "snap(%s) = %s, want %s", tc.in, got, tc.want)
	}
}
