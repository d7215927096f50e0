package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the canonical catalog listing. The cart subsystem only ever
// reads products; price, discount and stock are authoritative here.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID      uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Category        *Category       `gorm:"foreignKey:CategoryID"`
	Name            string          `gorm:"column:name;not null"`
	Slug            string          `gorm:"column:slug;not null;uniqueIndex"`
	SKU             *string         `gorm:"column:sku;uniqueIndex"`
	ImageURL        *string         `gorm:"column:image_url"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPercent int             `gorm:"column:discount_percent;not null;default:0"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	IsInStock       bool            `gorm:"column:is_in_stock;not null;default:true"`
	IsNew           bool            `gorm:"column:is_new;not null;default:false"`
	IsFeatured      bool            `gorm:"column:is_featured;not null;default:false"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	Description     *string         `gorm:"column:description"`
	Unit            *string         `gorm:"column:unit"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeSave keeps the stored in-stock flag in sync with the stock count.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.IsInStock = p.Stock > 0
	return nil
}
