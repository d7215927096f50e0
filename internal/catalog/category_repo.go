package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
)

// CategoryRepository exposes read operations over the category tree.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository constructs a category repository bound to the provided DB.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListRoots returns top-level categories with their subcategories preloaded.
func (r *CategoryRepository) ListRoots(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Preload("Subcategories", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		Where("parent_id IS NULL").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one category with its subcategories.
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	err := r.db.WithContext(ctx).
		Preload("Subcategories", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
