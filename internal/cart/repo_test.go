package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
)

func TestRepositoryGetOrCreateCartIsStable(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		t.Fatalf("first access: %v", err)
	}
	second, err := repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		t.Fatalf("second access: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one cart per user, got %s and %s", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one cart row, got %d", count)
	}
}

func TestRepositoryGetOrCreateCartLosesInsertRace(t *testing.T) {
	db := openTestDB(t)
	// Skip the wrapping transaction so the rival row committed mid-create
	// survives the insert's failure.
	repo := NewRepository(db.Session(&gorm.Session{SkipDefaultTransaction: true}))
	ctx := context.Background()
	userID := uuid.New()
	rivalID := uuid.New()

	// Sneak a rival cart in between the first-access miss and the insert,
	// so the insert trips uniq_carts_user and the fallback re-fetch runs.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("rival_cart_insert", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "carts" {
			return
		}
		raced = true
		insertErr := db.Exec(
			"INSERT INTO carts (id, user_id, created_at, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
			rivalID, userID,
		).Error
		if insertErr != nil {
			t.Errorf("rival insert: %v", insertErr)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	cart, err := repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		t.Fatalf("get or create after lost race: %v", err)
	}
	if !raced {
		t.Fatal("rival insert never ran")
	}
	if cart.ID != rivalID {
		t.Fatalf("expected the winner's cart %s, got %s", rivalID, cart.ID)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one cart row after the race, got %d", count)
	}
}

func TestRepositoryCreateThenUpdateItem(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "10.00", 0, 10)
	cart, err := repo.GetOrCreateCart(ctx, uuid.New())
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	before := cart.UpdatedAt

	if err := repo.CreateItem(ctx, cart.ID, product.ID, 2); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := repo.UpdateItemQty(ctx, cart.ID, product.ID, 7); err != nil {
		t.Fatalf("overwrite item: %v", err)
	}

	item, err := repo.FindItem(ctx, cart.ID, product.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if item.Qty != 7 {
		t.Fatalf("expected qty 7 after overwrite, got %d", item.Qty)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row per (cart, product), got %d", count)
	}

	var reloaded models.Cart
	if err := db.First(&reloaded, "id = ?", cart.ID).Error; err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if reloaded.UpdatedAt.Before(before) {
		t.Fatal("expected cart updated_at bumped by item mutation")
	}
}

func TestRepositoryCreateItemDuplicateIsConflict(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "5.00", 0, 10)
	cart, _ := repo.GetOrCreateCart(ctx, uuid.New())

	if err := repo.CreateItem(ctx, cart.ID, product.ID, 1); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := repo.CreateItem(ctx, cart.ID, product.ID, 1)
	if err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
	if !IsItemConflict(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestRepositoryItemLookupsAreCartScoped(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "3.00", 0, 10)
	owner, _ := repo.GetOrCreateCart(ctx, uuid.New())
	stranger, _ := repo.GetOrCreateCart(ctx, uuid.New())

	if err := repo.CreateItem(ctx, owner.ID, product.ID, 1); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	item, err := repo.FindItem(ctx, owner.ID, product.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}

	if _, err := repo.FindItemByID(ctx, stranger.ID, item.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected foreign item to be invisible, got %v", err)
	}
	if got, err := repo.FindItemByID(ctx, owner.ID, item.ID); err != nil || got.ID != item.ID {
		t.Fatalf("expected own item visible, got %v err=%v", got, err)
	}
}

func TestRepositoryDeleteAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := mustCreateProduct(t, db, "1.00", 0, 10)
	second := mustCreateProduct(t, db, "2.00", 0, 10)
	cart, _ := repo.GetOrCreateCart(ctx, uuid.New())

	if err := repo.CreateItem(ctx, cart.ID, first.ID, 1); err != nil {
		t.Fatalf("upsert first: %v", err)
	}
	if err := repo.CreateItem(ctx, cart.ID, second.ID, 2); err != nil {
		t.Fatalf("upsert second: %v", err)
	}

	items, err := repo.ListItems(ctx, cart.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.Product == nil {
			t.Fatal("expected product joined on list")
		}
	}

	if err := repo.DeleteItem(ctx, cart.ID, items[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err = repo.ListItems(ctx, cart.ID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item after delete, got %d", len(items))
	}
}
