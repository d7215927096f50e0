package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angkormart/angkormart-backend/pkg/db"
	"github.com/angkormart/angkormart-backend/pkg/db/models"
)

const (
	cartOwnerConstraint   = "uniq_carts_user"
	cartProductConstraint = "uniq_cart_items_cart_product"
)

// Repository owns cart and cart item persistence. Every item lookup is scoped
// to a cart id, so rows belonging to another user's cart are never reachable
// through it.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateCart returns the owner's cart, creating it on first access.
// Two concurrent first accesses race on the insert; the unique index on
// user_id makes the loser fall back to fetching the winner's row.
func (r *Repository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{ID: uuid.New(), UserID: userID}
	createErr := r.db.WithContext(ctx).Create(&cart).Error
	if createErr == nil {
		return &cart, nil
	}
	if !db.IsUniqueViolation(createErr, cartOwnerConstraint) {
		return nil, createErr
	}

	// Lost the insert race; the cart now exists.
	var existing models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// FindItem returns the cart's item for a product, or gorm.ErrRecordNotFound.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByID returns the item only when it belongs to the given cart.
func (r *Repository) FindItemByID(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new item row. A concurrent insert for the same
// (cart, product) pair raises a unique violation; callers detect it with
// IsItemConflict and retry by re-reading and re-merging.
func (r *Repository) CreateItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	item := models.CartItem{ID: uuid.New(), CartID: cartID, ProductID: productID, Qty: qty}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return err
	}
	return r.touchCart(ctx, cartID)
}

// UpdateItemQty overwrites the quantity of an existing (cart, product) row.
func (r *Repository) UpdateItemQty(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("qty", qty).Error
	if err != nil {
		return err
	}
	return r.touchCart(ctx, cartID)
}

// DeleteItem removes an item from the cart and bumps the cart timestamp.
func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return err
	}
	return r.touchCart(ctx, cartID)
}

// ListItems returns the cart's items with products joined, oldest first.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) touchCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now().UTC()).Error
}

// IsItemConflict reports whether the error is a unique violation on the
// (cart, product) pair.
func IsItemConflict(err error) bool {
	return db.IsUniqueViolation(err, cartProductConstraint)
}
