package cart

import (
	"fmt"
	"testing"

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
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, price string, discount, stock int) *models.Product {
	t.Helper()
	category := &models.Category{
		ID:   uuid.New(),
		Name: "Test",
		Slug: fmt.Sprintf("test-%s", uuid.NewString()[:8]),
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &models.Product{
		ID:              uuid.New(),
		CategoryID:      category.ID,
		Name:            "Test Product",
		Slug:            fmt.Sprintf("product-%s", uuid.NewString()[:8]),
		Price:           decimal.RequireFromString(price),
		DiscountPercent: discount,
		Stock:           stock,
		IsActive:        true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
