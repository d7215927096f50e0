package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
	"github.com/angkormart/angkormart-backend/pkg/pagination"
)

const maxRelatedProducts = 10

// ProductRepository exposes read operations over the product table. All
// queries are filtered to active products: cart and browse surfaces never see
// deactivated rows.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository constructs a product repository bound to the provided DB.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindActiveByID returns the product when it exists and is active.
func (r *ProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns one keyset page of active products matching the filters,
// ordered newest first.
func (r *ProductRepository) List(ctx context.Context, input ListProductsInput) ([]models.Product, string, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.is_active = ?", true)

	qb = applyFilters(qb, input.Filters)

	if cursor != nil {
		qb = qb.Where(
			"(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	err = qb.Order("products.created_at DESC").
		Order("products.id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	page, hasMore := pagination.TrimPage(rows, limit)
	nextCursor := ""
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nextCursor, nil
}

// ListRelated returns the newest active products sharing a category,
// excluding the product itself.
func (r *ProductRepository) ListRelated(ctx context.Context, categoryID, excludeID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, excludeID, true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(maxRelatedProducts).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func applyFilters(qb *gorm.DB, filters ProductListFilters) *gorm.DB {
	if filters.IsNew != nil {
		qb = qb.Where("products.is_new = ?", *filters.IsNew)
	}
	if filters.IsFeatured != nil {
		qb = qb.Where("products.is_featured = ?", *filters.IsFeatured)
	}
	if filters.Discounted != nil {
		if *filters.Discounted {
			qb = qb.Where("products.discount_percent > 0")
		} else {
			qb = qb.Where("products.discount_percent = 0")
		}
	}
	if slug := strings.TrimSpace(filters.CategorySlug); slug != "" {
		qb = qb.Where("products.category_id IN (?)",
			qb.Session(&gorm.Session{NewDB: true}).
				Model(&models.Category{}).
				Select("id").
				Where("slug = ?", slug),
		)
	}
	if slug := strings.TrimSpace(filters.ParentCategory); slug != "" {
		qb = qb.Where("products.category_id IN (?)",
			qb.Session(&gorm.Session{NewDB: true}).
				Model(&models.Category{}).
				Select("id").
				Where("parent_id IN (?)",
					qb.Session(&gorm.Session{NewDB: true}).
						Model(&models.Category{}).
						Select("id").
						Where("slug = ?", slug),
				),
		)
	}
	if q := strings.TrimSpace(filters.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		qb = qb.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.slug) LIKE ? OR LOWER(COALESCE(products.sku, '')) LIKE ?",
			like, like, like,
		)
	}
	return qb
}
