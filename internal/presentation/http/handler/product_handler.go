package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lankaweave/storefront-api/internal/application/service"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/internal/presentation/http/dto/request"
	"github.com/lankaweave/storefront-api/internal/presentation/http/dto/response"
	"github.com/lankaweave/storefront-api/pkg/pagination"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:     filter.Search,
		ActiveOnly: true,
	}

	if filter.CategoryID != "" {
		catID, err := uuid.Parse(filter.CategoryID)
		if err == nil {
			params.CategoryID = &catID
		}
	}

	products, meta, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully",
		pagination.NewPaginatedResult(products, meta))
}

// Get handles retrieving a single product by ID or slug
func (h *ProductHandler) Get(c *gin.Context) {
	raw := c.Param("id")

	if id, err := uuid.Parse(raw); err == nil {
		product, err := h.catalogService.GetProduct(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Product retrieved successfully", product)
		return
	}

	product, err := h.catalogService.GetProductBySlug(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

// ListCategories handles listing categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}
