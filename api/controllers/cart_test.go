package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angkormart/angkormart-backend/api/middleware"
	cartsvc "github.com/angkormart/angkormart-backend/internal/cart"
	pkgerrors "github.com/angkormart/angkormart-backend/pkg/errors"
)

type stubCartService struct {
	view    *cartsvc.CartView
	err     error
	lastQty int
}

func (s *stubCartService) GetCart(_ context.Context, _ uuid.UUID) (*cartsvc.CartView, error) {
	return s.view, s.err
}

func (s *stubCartService) AddItem(_ context.Context, _, _ uuid.UUID, qty int) (*cartsvc.CartView, error) {
	s.lastQty = qty
	return s.view, s.err
}

func (s *stubCartService) SetItemQuantity(_ context.Context, _, _ uuid.UUID, qty int) (*cartsvc.CartView, error) {
	s.lastQty = qty
	return s.view, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, _, _ uuid.UUID) (*cartsvc.CartView, error) {
	return s.view, s.err
}

func newCartRouter(svc cartsvc.Service, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID.String())))
		})
	})
	r.Get("/api/v1/cart/", CartFetch(svc, nil))
	r.Post("/api/v1/cart/items", CartAddItem(svc, nil))
	r.Patch("/api/v1/cart/items/{itemId}", CartSetItemQty(svc, nil))
	r.Delete("/api/v1/cart/items/{itemId}", CartRemoveItem(svc, nil))
	return r
}

func emptyView() *cartsvc.CartView {
	return &cartsvc.CartView{
		ID:    uuid.New(),
		Items: []cartsvc.CartItemView{},
		Total: decimal.Zero.Round(2),
	}
}

func TestCartFetchReturnsView(t *testing.T) {
	svc := &stubCartService{view: emptyView()}
	router := newCartRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data cartsvc.CartView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, svc.view.ID, envelope.Data.ID)
	require.Empty(t, envelope.Data.Items)
	require.True(t, envelope.Data.Total.IsZero())
}

func TestCartAddItemDefaultsQtyToOne(t *testing.T) {
	svc := &stubCartService{view: emptyView()}
	router := newCartRouter(svc, uuid.New())

	body := `{"productId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1, svc.lastQty)
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	svc := &stubCartService{view: emptyView()}
	router := newCartRouter(svc, uuid.New())

	cases := []struct {
		name string
		body string
	}{
		{"zero qty", `{"productId":"` + uuid.NewString() + `","qty":0}`},
		{"missing product", `{"qty":2}`},
		{"unknown field", `{"productId":"` + uuid.NewString() + `","color":"red"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCartSetItemQtyZeroAndBelowFlowThrough(t *testing.T) {
	// Zero or negative means removal, so the controller must hand those
	// values to the service instead of rejecting them.
	cases := []struct {
		name string
		body string
		want int
	}{
		{"zero", `{"qty":0}`, 0},
		{"negative", `{"qty":-1}`, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCartService{view: emptyView(), lastQty: 99}
			router := newCartRouter(svc, uuid.New())

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+uuid.NewString(), strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.Equal(t, tc.want, svc.lastQty)
		})
	}
}

func TestCartSetItemQtyRequiresQtyField(t *testing.T) {
	svc := &stubCartService{view: emptyView(), lastQty: 99}
	router := newCartRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/"+uuid.NewString(), strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.Equal(t, 99, svc.lastQty, "service must not run for a missing qty")
}

func TestCartItemRoutesRejectBadItemID(t *testing.T) {
	svc := &stubCartService{view: emptyView()}
	router := newCartRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartInsufficientStockSurfacesAsConflict(t *testing.T) {
	svc := &stubCartService{
		err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"stock": 1, "requested": 4}),
	}
	router := newCartRouter(svc, uuid.New())

	body := `{"productId":"` + uuid.NewString() + `","qty":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")
	require.Contains(t, rec.Body.String(), `"requested":4`)
}

func TestCartRequiresUserContext(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/cart/", CartFetch(&stubCartService{view: emptyView()}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
