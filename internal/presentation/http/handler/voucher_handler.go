package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lankaweave/storefront-api/internal/application/service"
	"github.com/lankaweave/storefront-api/internal/presentation/http/dto/response"
)

// VoucherHandler handles gift-voucher HTTP requests
type VoucherHandler struct {
	voucherService *service.VoucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(voucherService *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// ListTemplates handles listing purchasable voucher denominations
func (h *VoucherHandler) ListTemplates(c *gin.Context) {
	templates, err := h.voucherService.ListTemplates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher templates retrieved successfully", templates)
}

// OrderVouchers handles the confirmation-page voucher lookup
func (h *VoucherHandler) OrderVouchers(c *gin.Context) {
	orderNumber := c.Query("orderNumber")
	if orderNumber == "" {
		response.BadRequest(c, "orderNumber is required")
		return
	}

	result, err := h.voucherService.OrderVouchers(c.Request.Context(), orderNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order vouchers retrieved successfully", result)
}

// Get handles retrieving a voucher by code
func (h *VoucherHandler) Get(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "Invalid voucher code")
		return
	}

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher retrieved successfully", voucher)
}

// Redeem handles marking a voucher code as used
func (h *VoucherHandler) Redeem(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "Invalid voucher code")
		return
	}

	voucher, err := h.voucherService.Redeem(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher redeemed", voucher)
}
