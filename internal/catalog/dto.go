package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
	"github.com/angkormart/angkormart-backend/pkg/pagination"
	"github.com/angkormart/angkormart-backend/pkg/pricing"
)

// CategoryDTO is the wire shape for a category, with nested subcategories.
type CategoryDTO struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	ImageURL      *string       `json:"imageUrl"`
	ParentID      *uuid.UUID    `json:"parentId,omitempty"`
	Subcategories []CategoryDTO `json:"subcategories,omitempty"`
}

// ProductSummary is the compact product payload used in listings and cart views.
type ProductSummary struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	ImageURL        *string         `json:"imageUrl"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discountPercent"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	Unit            *string         `json:"unit"`
	IsInStock       bool            `json:"isInStock"`
	IsNew           bool            `json:"isNew"`
	IsFeatured      bool            `json:"isFeatured"`
}

// ProductDetail extends the summary with full fields and related products.
type ProductDetail struct {
	ProductSummary
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Stock       int              `json:"stock"`
	Category    CategoryDTO      `json:"category"`
	Related     []ProductSummary `json:"related"`
}

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	IsNew          *bool
	IsFeatured     *bool
	Discounted     *bool
	CategorySlug   string
	ParentCategory string
	Search         string
}

// ListProductsInput captures the inputs needed to paginate/filter products.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}

// ProductListResult is one page of product summaries.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// NewProductSummary maps a product row to its wire shape, computing the
// discounted price.
func NewProductSummary(product *models.Product) ProductSummary {
	return ProductSummary{
		ID:              product.ID,
		Name:            product.Name,
		Slug:            product.Slug,
		ImageURL:        product.ImageURL,
		Price:           product.Price.Round(2),
		DiscountPercent: product.DiscountPercent,
		FinalPrice:      pricing.FinalUnitPrice(product.Price, product.DiscountPercent),
		Unit:            product.Unit,
		IsInStock:       product.IsInStock,
		IsNew:           product.IsNew,
		IsFeatured:      product.IsFeatured,
	}
}

func newCategoryDTO(category *models.Category) CategoryDTO {
	dto := CategoryDTO{
		ID:       category.ID,
		Name:     category.Name,
		Slug:     category.Slug,
		ImageURL: category.ImageURL,
		ParentID: category.ParentID,
	}
	for i := range category.Subcategories {
		dto.Subcategories = append(dto.Subcategories, newCategoryDTO(&category.Subcategories[i]))
	}
	return dto
}
