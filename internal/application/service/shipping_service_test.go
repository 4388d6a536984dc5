package service

import (
	"context"
	"testing"

	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeUrbanCityMatch(t *testing.T) {
	svc := NewShippingService(&fakeShippingRepo{rates: standardRates()})

	fee, err := svc.Fee(context.Background(), "Colombo", "Colombo 03 - Kollupitiya", true)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), fee)
}

func TestFeeSuburbDistrictMatch(t *testing.T) {
	svc := NewShippingService(&fakeShippingRepo{rates: standardRates()})

	// Colombo district but not an urban city row
	fee, err := svc.Fee(context.Background(), "Colombo", "Homagama", true)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), fee)
}

func TestFeeDefaultTier(t *testing.T) {
	svc := NewShippingService(&fakeShippingRepo{rates: standardRates()})

	fee, err := svc.Fee(context.Background(), "Jaffna", "Jaffna", true)
	require.NoError(t, err)
	assert.Equal(t, int64(55000), fee)
}

func TestFeeFreeForVoucherOnlyOrders(t *testing.T) {
	svc := NewShippingService(&fakeShippingRepo{rates: standardRates()})

	fee, err := svc.Fee(context.Background(), "Colombo", "Colombo 03 - Kollupitiya", false)
	require.NoError(t, err)
	assert.Zero(t, fee)
}

func TestFeeMatchesCaseInsensitively(t *testing.T) {
	svc := NewShippingService(&fakeShippingRepo{rates: standardRates()})

	fee, err := svc.Fee(context.Background(), "colombo", "colombo 03 - kollupitiya", true)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), fee)
}

func TestFeeErrorsWithoutDefaultRow(t *testing.T) {
	svc := NewShippingService(&fakeShippingRepo{rates: []entity.ShippingRate{
		{District: "Colombo", City: "Colombo 03 - Kollupitiya", Tier: entity.ShippingTierUrban, Fee: 35000},
	}})

	_, err := svc.Fee(context.Background(), "Jaffna", "Jaffna", true)
	require.Error(t, err)
}

func TestRatesLoadedOnce(t *testing.T) {
	repo := &countingShippingRepo{rates: standardRates()}
	svc := NewShippingService(repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Rates(context.Background())
		require.NoError(t, err)
	}
	_, err := svc.Fee(context.Background(), "Colombo", "Homagama", true)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
}

type countingShippingRepo struct {
	rates []entity.ShippingRate
	calls int
}

func (r *countingShippingRepo) ListRates(_ context.Context) ([]entity.ShippingRate, error) {
	r.calls++
	return r.rates, nil
}
