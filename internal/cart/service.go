package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
	pkgerrors "github.com/angkormart/angkormart-backend/pkg/errors"
)

// maxConflictAttempts bounds the read-merge-write loop when concurrent adds
// race on the (cart, product) unique index.
const maxConflictAttempts = 3

type cartRepository interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	FindItemByID(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	UpdateItemQty(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
}

type catalogStore interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart operations. Every mutation returns the assembled
// cart view so clients always render from a consistent snapshot.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*CartView, error)
	SetItemQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error)
}

type service struct {
	repo    cartRepository
	catalog catalogStore
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo cartRepository, catalog catalogStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

// GetCart returns the owner's cart view, lazily creating the cart.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.ownCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.assembleView(ctx, cart)
}

// AddItem merges the requested quantity into the cart: an existing line for
// the product grows by qty, a missing one is created at qty. Stock is checked
// against the merged total. Concurrent adds for the same product can race on
// the insert; the unique index rejects the loser and the loop re-reads and
// re-merges instead of losing the increment.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*CartView, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.ownCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		product, err := s.loadProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product.Stock < qty {
			return nil, insufficientStock(product, qty)
		}

		existing, err := s.repo.FindItem(ctx, cart.ID, productID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		if existing == nil {
			if err := s.repo.CreateItem(ctx, cart.ID, productID, qty); err != nil {
				if IsItemConflict(err) {
					// Another request inserted the row between our read and
					// write. Re-read and merge instead of duplicating.
					lastErr = err
					continue
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart item")
			}
			return s.assembleView(ctx, cart)
		}

		merged := existing.Qty + qty
		if product.Stock < merged {
			return nil, insufficientStock(product, merged)
		}
		if err := s.repo.UpdateItemQty(ctx, cart.ID, productID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart item")
		}
		return s.assembleView(ctx, cart)
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "cart update conflicted repeatedly")
}

// SetItemQuantity overwrites an item's quantity. A quantity below 1 removes
// the item. Item ids from other carts resolve to not-found: a caller must not
// learn whether another user's item exists.
func (s *service) SetItemQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartView, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	cart, err := s.ownCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.findOwnItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if qty < 1 {
		if err := s.repo.DeleteItem(ctx, cart.ID, item.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
		return s.assembleView(ctx, cart)
	}

	product, err := s.loadProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < qty {
		return nil, insufficientStock(product, qty)
	}

	if err := s.repo.UpdateItemQty(ctx, cart.ID, item.ProductID, qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart item")
	}
	return s.assembleView(ctx, cart)
}

// RemoveItem deletes an item unconditionally. No stock check applies.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	cart, err := s.ownCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.findOwnItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return s.assembleView(ctx, cart)
}

func (s *service) ownCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) findOwnItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindItemByID(ctx, cartID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	return item, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.catalog.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) assembleView(ctx context.Context, cart *models.Cart) (*CartView, error) {
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	view := NewCartView(cart, items)
	return &view, nil
}

func insufficientStock(product *models.Product, requested int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{
			"productId": product.ID,
			"stock":     product.Stock,
			"requested": requested,
		})
}
