package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angkormart/angkormart-backend/api/responses"
	"github.com/angkormart/angkormart-backend/api/validators"
	catalogsvc "github.com/angkormart/angkormart-backend/internal/catalog"
	pkgerrors "github.com/angkormart/angkormart-backend/pkg/errors"
	"github.com/angkormart/angkormart-backend/pkg/logger"
	"github.com/angkormart/angkormart-backend/pkg/pagination"
)

func CategoryList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func CategoryDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.GetCategory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, category)
	}
}

// ProductList serves the paginated product browse endpoint with its filter
// knobs: is_new, is_featured, discounted, category, parent_category, search.
func ProductList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := parseProductListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func ProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseProductListInput(r *http.Request) (catalogsvc.ListProductsInput, error) {
	var input catalogsvc.ListProductsInput

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return input, err
	}
	input.Pagination = pagination.Params{
		Limit:  limit,
		Cursor: validators.QueryString(r, "cursor"),
	}

	isNew, err := validators.ParseQueryBool(r, "is_new")
	if err != nil {
		return input, err
	}
	isFeatured, err := validators.ParseQueryBool(r, "is_featured")
	if err != nil {
		return input, err
	}
	discounted, err := validators.ParseQueryBool(r, "discounted")
	if err != nil {
		return input, err
	}

	input.Filters = catalogsvc.ProductListFilters{
		IsNew:          isNew,
		IsFeatured:     isFeatured,
		Discounted:     discounted,
		CategorySlug:   validators.QueryString(r, "category"),
		ParentCategory: validators.QueryString(r, "parent_category"),
		Search:         validators.QueryString(r, "search"),
	}
	return input, nil
}

func parsePathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").
			WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
