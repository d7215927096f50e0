package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem links a cart to a product with a quantity. No price columns: the
// view layer always re-reads the product so carts never show stale prices.
// Qty is at least 1 by invariant; a qty below 1 means the row is deleted.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uniq_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uniq_cart_items_cart_product"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Qty       int       `gorm:"column:qty;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
