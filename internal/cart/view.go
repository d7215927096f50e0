package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angkormart/angkormart-backend/internal/catalog"
	"github.com/angkormart/angkormart-backend/pkg/db/models"
	"github.com/angkormart/angkormart-backend/pkg/pricing"
)

// CartView is the derived read model returned by every cart operation. It is
// assembled fresh each time: items store quantities and product references
// only, never price snapshots.
type CartView struct {
	ID    uuid.UUID       `json:"id"`
	Items []CartItemView  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartItemView is one cart line with live pricing applied.
type CartItemView struct {
	ID        uuid.UUID              `json:"id"`
	Product   catalog.ProductSummary `json:"product"`
	Qty       int                    `json:"qty"`
	LineTotal decimal.Decimal        `json:"lineTotal"`
}

// NewCartView folds item rows into the wire shape, recomputing each line from
// the joined product's current price and discount.
func NewCartView(cart *models.Cart, items []models.CartItem) CartView {
	view := CartView{
		ID:    cart.ID,
		Items: make([]CartItemView, 0, len(items)),
		Total: decimal.Zero.Round(2),
	}
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			// Product row vanished under the item; skip rather than render
			// a line with no price.
			continue
		}
		lineTotal := pricing.LineTotal(item.Product.Price, item.Product.DiscountPercent, item.Qty)
		view.Items = append(view.Items, CartItemView{
			ID:        item.ID,
			Product:   catalog.NewProductSummary(item.Product),
			Qty:       item.Qty,
			LineTotal: lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}
	return view
}
