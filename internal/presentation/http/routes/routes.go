package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lankaweave/storefront-api/internal/config"
	domainRepo "github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/internal/presentation/http/handler"
	"github.com/lankaweave/storefront-api/internal/presentation/http/middleware"
	"github.com/rs/zerolog"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Voucher  *handler.VoucherHandler
	Order    *handler.OrderHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          zerolog.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	api := router.Group("/api")
	{
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		api.Use(rateLimiter.Middleware())

		registerStorefrontRoutes(api, h, deps)
		registerAdminRoutes(api, h)
	}

	return router
}

func registerStorefrontRoutes(api *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Catalog
	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Get)
	api.GET("/categories", h.Product.ListCategories)

	// Cart
	cart := api.Group("/cart")
	{
		cart.POST("", h.Cart.Create)
		cart.GET("/:id", h.Cart.Get)
		cart.POST("/:id/items", h.Cart.AddItem)
		cart.PUT("/:id/items/:itemKey", h.Cart.UpdateItem)
		cart.DELETE("/:id/items/:itemKey", h.Cart.DeleteItem)
		cart.DELETE("/:id", h.Cart.Reset)
	}

	// Checkout; a client-supplied Idempotency-Key replays the original
	// response on resubmission
	api.POST("/checkout",
		middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
		h.Checkout.PlaceOrder)
	api.GET("/shipping-rates", h.Checkout.ShippingRates)

	// Vouchers
	api.GET("/voucher", h.Voucher.ListTemplates)
	api.GET("/order-vouchers", h.Voucher.OrderVouchers)
}

func registerAdminRoutes(api *gin.RouterGroup, h *Handlers) {
	admin := api.Group("/admin")
	{
		admin.GET("/orders", h.Order.List)
		admin.GET("/orders/:id", h.Order.Get)
		admin.PUT("/orders/:id/status", h.Order.UpdateStatus)
		admin.POST("/orders/:id/cancel", h.Order.Cancel)
		admin.GET("/stock", h.Order.StockReport)
		admin.GET("/vouchers/:code", h.Voucher.Get)
		admin.POST("/vouchers/:code/redeem", h.Voucher.Redeem)
	}
}
