package database

import (
	"fmt"

	"github.com/lankaweave/storefront-api/internal/config"
	"github.com/lankaweave/storefront-api/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		// Catalog entities
		&entity.Category{},
		&entity.Product{},
		&entity.Variant{},

		// Transaction entities
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Voucher{},
		&entity.VoucherTemplate{},

		// System entities
		&entity.ShippingRate{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// colomboCities are the urban postal zones that get the flat city rate.
var colomboCities = []string{
	"Colombo 01 - Fort",
	"Colombo 02 - Slave Island",
	"Colombo 03 - Kollupitiya",
	"Colombo 04 - Bambalapitiya",
	"Colombo 05 - Havelock Town",
	"Colombo 06 - Wellawatte",
	"Colombo 07 - Cinnamon Gardens",
	"Colombo 08 - Borella",
	"Colombo 09 - Dematagoda",
	"Colombo 10 - Maradana",
	"Colombo 11 - Pettah",
	"Colombo 12 - Hulftsdorp",
	"Colombo 13 - Kotahena",
	"Colombo 14 - Grandpass",
	"Colombo 15 - Mutwal",
}

// Default delivery fees in cents
const (
	urbanFeeCents  = 35000 // Rs. 350 within Colombo city
	suburbFeeCents = 45000 // Rs. 450 Colombo district suburbs
	otherFeeCents  = 55000 // Rs. 550 everywhere else
)

// SeedDefaultData seeds the database with default data (categories with
// quantity rules, the shipping rate table, voucher templates)
func SeedDefaultData(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("seeding default data")

	if err := seedCategories(db, log); err != nil {
		return err
	}
	if err := seedShippingRates(db); err != nil {
		return err
	}
	if err := seedVoucherTemplates(db, log); err != nil {
		return err
	}

	log.Info().Msg("default data seeded")
	return nil
}

func seedCategories(db *gorm.DB, log zerolog.Logger) error {
	quarter := decimal.NewFromFloat(0.25)
	one := decimal.NewFromInt(1)

	categories := []entity.Category{
		// Fabric is cut to order in quarter-meter steps, minimum one meter
		{Name: "Fabrics", Slug: "fabrics", QuantityStep: quarter, MinQuantity: one},
		{Name: "Accessories", Slug: "accessories", QuantityStep: one, MinQuantity: one},
		{Name: "Gift Vouchers", Slug: "gift-vouchers", QuantityStep: one, MinQuantity: one, IsVoucher: true},
	}

	for i := range categories {
		var existing entity.Category
		if err := db.Where("slug = ?", categories[i].Slug).First(&existing).Error; err != nil {
			if err := db.Create(&categories[i]).Error; err != nil {
				log.Warn().Err(err).Str("slug", categories[i].Slug).Msg("failed to create category")
			}
		}
	}
	return nil
}

func seedShippingRates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.ShippingRate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rates := make([]entity.ShippingRate, 0, len(colomboCities)+2)
	for _, city := range colomboCities {
		rates = append(rates, entity.ShippingRate{
			District: "Colombo",
			City:     city,
			Tier:     entity.ShippingTierUrban,
			Fee:      urbanFeeCents,
		})
	}
	rates = append(rates,
		entity.ShippingRate{District: "Colombo", Tier: entity.ShippingTierSuburb, Fee: suburbFeeCents},
		entity.ShippingRate{Tier: entity.ShippingTierOther, Fee: otherFeeCents},
	)

	return db.Create(&rates).Error
}

func seedVoucherTemplates(db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&entity.VoucherTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var voucherCategory entity.Category
	if err := db.Where("is_voucher = ?", true).First(&voucherCategory).Error; err != nil {
		return err
	}

	denominations := []struct {
		title  string
		amount int64
	}{
		{"Gift Voucher Rs. 2,500", 250000},
		{"Gift Voucher Rs. 5,000", 500000},
		{"Gift Voucher Rs. 10,000", 1000000},
	}

	for i, d := range denominations {
		// Each denomination is backed by a purchasable voucher product with
		// effectively unlimited stock
		product := entity.Product{
			CategoryID: voucherCategory.ID,
			Name:       d.title,
			Slug:       fmt.Sprintf("gift-voucher-%d", i+1),
			Price:      d.amount,
			Active:     true,
			Variants: []entity.Variant{
				{Key: "default", Name: "Default", OpeningStock: decimal.NewFromInt(1000000), StockOut: decimal.Zero},
			},
		}
		if err := db.Create(&product).Error; err != nil {
			log.Warn().Err(err).Str("slug", product.Slug).Msg("failed to create voucher product")
			continue
		}

		template := entity.VoucherTemplate{
			ProductID:   product.ID,
			Title:       d.title,
			Amount:      d.amount,
			Description: "Redeemable on any purchase, in store or online.",
			SortOrder:   i,
		}
		if err := db.Create(&template).Error; err != nil {
			log.Warn().Err(err).Str("title", d.title).Msg("failed to create voucher template")
		}
	}

	return nil
}
