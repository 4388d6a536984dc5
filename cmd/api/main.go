package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lankaweave/storefront-api/internal/application/service"
	"github.com/lankaweave/storefront-api/internal/config"
	"github.com/lankaweave/storefront-api/internal/domain/repository"
	"github.com/lankaweave/storefront-api/internal/infrastructure/database"
	infraRepo "github.com/lankaweave/storefront-api/internal/infrastructure/repository"
	"github.com/lankaweave/storefront-api/internal/presentation/http/handler"
	"github.com/lankaweave/storefront-api/internal/presentation/http/routes"
	"github.com/lankaweave/storefront-api/pkg/email"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.App.Name).Logger()
	if cfg.App.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db, logger); err != nil {
		logger.Warn().Err(err).Msg("failed to seed default data")
	}

	// Initialize repositories
	productRepo := infraRepo.NewProductRepository(db)
	categoryRepo := infraRepo.NewCategoryRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	voucherRepo := infraRepo.NewVoucherRepository(db)
	shippingRepo := infraRepo.NewShippingRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)
	cartRepo := newCartRepository(cfg, logger)

	// Sweep expired idempotency keys in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to clean up expired idempotency keys")
			}
		}
	}()

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		OpsEmail:     cfg.Email.OpsEmail,
		StoreName:    cfg.App.Name,
	})

	// Initialize services
	shippingService := service.NewShippingService(shippingRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	catalogService := service.NewCatalogService(productRepo, categoryRepo)
	checkoutService := service.NewCheckoutService(orderRepo, productRepo, shippingService, emailService, cfg.Checkout, cfg.Payment.GatewayURL, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)
	voucherService := service.NewVoucherService(voucherRepo, orderRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:  handler.NewProductHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService, cartService, shippingService),
		Voucher:  handler.NewVoucherHandler(voucherService),
		Order:    handler.NewOrderHandler(orderService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
	})

	logger.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
	if err := router.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

// newCartRepository connects to Redis for cart storage, falling back to the
// in-process store when Redis is unreachable. Carts are reconstructable by
// the shopper, so losing them on restart is acceptable in degraded mode.
func newCartRepository(cfg *config.Config, logger zerolog.Logger) repository.CartRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, using in-memory cart store")
		return infraRepo.NewCartMemoryRepository()
	}

	return infraRepo.NewCartRedisRepository(client, cfg.Redis.CartTTL)
}
