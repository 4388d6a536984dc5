package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lankaweave/storefront-api/internal/application/service"
	"github.com/lankaweave/storefront-api/internal/presentation/http/dto/request"
	"github.com/lankaweave/storefront-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// CartHandler handles cart-related HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Create handles creating a new empty cart
func (h *CartHandler) Create(c *gin.Context) {
	cart, err := h.cartService.CreateCart(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cart created successfully", cart)
}

// Get handles retrieving a cart
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", cart)
}

// AddItem handles adding a line to a cart; an existing line with the same
// product and variant is replaced, not accumulated
func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), id, req.ProductID, req.VariantKey, decimal.NewFromFloat(req.Quantity))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// UpdateItem handles changing the quantity of an existing cart line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	itemKey := c.Param("itemKey")
	if itemKey == "" {
		response.BadRequest(c, "Invalid item key")
		return
	}

	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), id, itemKey, decimal.NewFromFloat(req.Quantity))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart item updated", cart)
}

// DeleteItem handles removing a line from a cart
func (h *CartHandler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	itemKey := c.Param("itemKey")
	if itemKey == "" {
		response.BadRequest(c, "Invalid item key")
		return
	}

	cart, err := h.cartService.DeleteCartProduct(c.Request.Context(), id, itemKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart item removed", cart)
}

// Reset handles clearing a cart
func (h *CartHandler) Reset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cart ID")
		return
	}

	if err := h.cartService.ResetCart(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
