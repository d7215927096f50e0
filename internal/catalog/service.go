package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
	pkgerrors "github.com/angkormart/angkormart-backend/pkg/errors"
	"github.com/angkormart/angkormart-backend/pkg/pagination"
)

type categoryReader interface {
	ListRoots(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type productReader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, input ListProductsInput) ([]models.Product, string, error)
	ListRelated(ctx context.Context, categoryID, excludeID uuid.UUID) ([]models.Product, error)
}

// Service exposes the catalog browse operations.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
}

type service struct {
	categories categoryReader
	products   productReader
}

// NewService builds a catalog service backed by the provided repositories.
func NewService(categories categoryReader, products productReader) (Service, error) {
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{categories: categories, products: products}, nil
}

// ListCategories returns the full category tree, roots first.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.categories.ListRoots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newCategoryDTO(&rows[i]))
	}
	return out, nil
}

// GetCategory returns one category with its subcategories.
func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}

	row, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	dto := newCategoryDTO(row)
	return &dto, nil
}

// ListProducts returns one filtered page of product summaries.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if _, err := pagination.ParseCursor(input.Pagination.Cursor); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pagination cursor")
	}

	rows, nextCursor, err := s.products.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	summaries := make([]ProductSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, NewProductSummary(&rows[i]))
	}
	return &ProductListResult{Products: summaries, NextCursor: nextCursor}, nil
}

// GetProduct returns product detail with related products from the same category.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	related, err := s.products.ListRelated(ctx, product.CategoryID, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load related products")
	}

	detail := &ProductDetail{
		ProductSummary: NewProductSummary(product),
		SKU:            product.SKU,
		Description:    product.Description,
		Stock:          product.Stock,
		Related:        make([]ProductSummary, 0, len(related)),
	}
	if product.Category != nil {
		detail.Category = newCategoryDTO(product.Category)
	}
	for i := range related {
		detail.Related = append(detail.Related, NewProductSummary(&related[i]))
	}
	return detail, nil
}
