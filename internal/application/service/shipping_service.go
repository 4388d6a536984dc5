package service

import (
	"context"
	"strings"
	"sync"

	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/apperror"
)

// ShippingService resolves delivery fees from the tiered rate table. The
// table is read once from the repository and cached for the life of the
// process; rates change rarely and only through reseeding.
type ShippingService struct {
	shippingRepo repository.ShippingRepository

	mu     sync.RWMutex
	rates  []entity.ShippingRate
	loaded bool
}

// NewShippingService creates a new shipping service
func NewShippingService(shippingRepo repository.ShippingRepository) *ShippingService {
	return &ShippingService{shippingRepo: shippingRepo}
}

// Rates returns the full rate table (for the storefront to render choices)
func (s *ShippingService) Rates(ctx context.Context) ([]entity.ShippingRate, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates, nil
}

// Fee computes the delivery fee in cents. Orders with no physical items
// always ship free: vouchers are delivered as codes, not parcels.
func (s *ShippingService) Fee(ctx context.Context, district, city string, hasPhysical bool) (int64, error) {
	if !hasPhysical {
		return 0, nil
	}

	if err := s.load(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return feeFromRates(s.rates, district, city)
}

func (s *ShippingService) load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	rates, err := s.shippingRepo.ListRates(ctx)
	if err != nil {
		return err
	}

	s.rates = rates
	s.loaded = true
	return nil
}

// feeFromRates walks the table from most to least specific: exact
// (district, city) row, then the district-wide suburb row, then the single
// default row.
func feeFromRates(rates []entity.ShippingRate, district, city string) (int64, error) {
	district = strings.TrimSpace(district)
	city = strings.TrimSpace(city)

	var suburbFee, otherFee *int64
	for i := range rates {
		r := &rates[i]
		switch r.Tier {
		case entity.ShippingTierUrban:
			if strings.EqualFold(r.District, district) && strings.EqualFold(r.City, city) {
				return r.Fee, nil
			}
		case entity.ShippingTierSuburb:
			if strings.EqualFold(r.District, district) {
				suburbFee = &r.Fee
			}
		case entity.ShippingTierOther:
			otherFee = &r.Fee
		}
	}

	if suburbFee != nil {
		return *suburbFee, nil
	}
	if otherFee != nil {
		return *otherFee, nil
	}
	return 0, apperror.NewAppError(500, "Shipping rate table has no default row")
}
