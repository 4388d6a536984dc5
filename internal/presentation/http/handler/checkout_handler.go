package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lankaweave/storefront-api/internal/application/service"
	"github.com/lankaweave/storefront-api/internal/domain/enum"
	"github.com/lankaweave/storefront-api/internal/presentation/http/dto/request"
	"github.com/lankaweave/storefront-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles the order-placement endpoint
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	cartService     *service.CartService
	shippingService *service.ShippingService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService, cartService *service.CartService, shippingService *service.ShippingService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		shippingService: shippingService,
	}
}

// checkoutResponse is the success payload the storefront confirmation page
// consumes; camelCase per the client contract
type checkoutResponse struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Vouchers    interface{} `json:"vouchers"`
	PaymentURL  string      `json:"paymentUrl,omitempty"`
}

// PlaceOrder handles placing a new order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := buildPlaceOrderInput(&req)

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Checkout succeeded; drop the server-held cart if the client sent its
	// ID. Cleanup is best-effort; TTL expiry collects leftovers.
	if cartID := cartIDFromHeader(c); cartID != nil {
		_ = h.cartService.ResetCart(c.Request.Context(), *cartID)
	}

	response.OK(c, "Order placed successfully", checkoutResponse{
		OrderID:     result.OrderID.String(),
		OrderNumber: result.OrderNumber,
		Vouchers:    result.Vouchers,
		PaymentURL:  result.PaymentURL,
	})
}

// ShippingRates handles listing the shipping fee table
func (h *CheckoutHandler) ShippingRates(c *gin.Context) {
	rates, err := h.shippingService.Rates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shipping rates retrieved successfully", rates)
}

func buildPlaceOrderInput(req *request.CheckoutRequest) *service.PlaceOrderInput {
	items := make([]service.CheckoutItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		itemType := enum.ItemType(item.Type)

		in := service.CheckoutItemInput{
			Type:       itemType,
			VariantKey: item.VariantKey,
			Quantity:   decimal.NewFromFloat(item.Quantity),
		}
		if item.ProductID != nil {
			in.ProductID = *item.ProductID
		}
		for _, v := range item.Vouchers {
			in.Vouchers = append(in.Vouchers, service.VoucherInput{
				ProductID: v.ProductID,
				IsGift:    v.IsGift,
				FromName:  v.FromName,
				ToName:    v.ToName,
			})
		}
		items = append(items, in)
	}

	return &service.PlaceOrderInput{
		Form: service.CheckoutForm{
			FirstName: req.Form.FirstName,
			LastName:  req.Form.LastName,
			Address:   req.Form.Address,
			District:  req.Form.District,
			City:      req.Form.City,
			Phone:     req.Form.Phone,
			Email:     req.Form.Email,
			Notes:     req.Form.Notes,
			Payment:   enum.PaymentMethod(req.Form.Payment),
		},
		Items:            items,
		DeclaredTotal:    req.Total,
		DeclaredShipping: req.ShippingCost,
	}
}
