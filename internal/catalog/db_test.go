package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateCategory(t *testing.T, tx *gorm.DB, name string, parentID *uuid.UUID) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		ParentID: parentID,
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

type productOpt func(*models.Product)

func withStock(stock int) productOpt {
	return func(p *models.Product) { p.Stock = stock }
}

func withDiscount(percent int) productOpt {
	return func(p *models.Product) { p.DiscountPercent = percent }
}

func withFlags(isNew, isFeatured bool) productOpt {
	return func(p *models.Product) {
		p.IsNew = isNew
		p.IsFeatured = isFeatured
	}
}

func inactive() productOpt {
	return func(p *models.Product) { p.IsActive = false }
}

func createdAt(ts time.Time) productOpt {
	return func(p *models.Product) { p.CreatedAt = ts }
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, categoryID uuid.UUID, name string, opts ...productOpt) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Slug:       fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		Price:      decimal.RequireFromString("10.00"),
		Stock:      5,
		IsActive:   true,
	}
	for _, opt := range opts {
		opt(product)
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
