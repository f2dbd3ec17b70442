package cart

import (
	cartsvc "github.com/o-complex/storefront-backend/internal/cart"
	"github.com/o-complex/storefront-backend/pkg/format"
	"github.com/shopspring/decimal"
)

type LineView struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Price          float64 `json:"price"`
	PriceFormatted string  `json:"price_formatted"`
	ImageURL       string  `json:"image_url,omitempty"`
	Quantity       int     `json:"quantity"`
}

type CartView struct {
	Items               []LineView `json:"items"`
	Phone               string     `json:"phone"`
	TotalItems          int        `json:"total_items"`
	TotalPrice          string     `json:"total_price"`
	TotalPriceFormatted string     `json:"total_price_formatted"`
}

func newCartView(store *cartsvc.Store) CartView {
	lines := store.Lines()
	view := CartView{
		Items:               make([]LineView, 0, len(lines)),
		Phone:               store.Phone(),
		TotalItems:          store.TotalItemCount(),
		TotalPrice:          store.TotalPrice().String(),
		TotalPriceFormatted: format.Currency(store.TotalPrice()),
	}
	for _, line := range lines {
		view.Items = append(view.Items, LineView{
			ID:             line.ProductID,
			Title:          line.Product.Title,
			Description:    line.Product.Description,
			Price:          line.Product.Price,
			PriceFormatted: format.Currency(decimal.NewFromFloat(line.Product.Price)),
			ImageURL:       line.Product.ImageURL,
			Quantity:       line.Quantity,
		})
	}
	return view
}
