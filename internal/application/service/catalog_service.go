package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/pkg/apperror"
	"github.com/lankaweave/storefront-api/pkg/pagination"
)

// CatalogService exposes the read-only storefront catalog
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts returns a paginated product listing with derived stock on
// every variant
func (s *CatalogService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, *pagination.Pagination, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return products, meta, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductBySlug retrieves a product by its URL slug
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListCategories returns all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}
