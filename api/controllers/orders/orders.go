package orders

import (
	"context"
	"net/http"

	"github.com/o-complex/storefront-backend/api/middleware"
	"github.com/o-complex/storefront-backend/api/responses"
	"github.com/o-complex/storefront-backend/api/validators"
	cartsvc "github.com/o-complex/storefront-backend/internal/cart"
	"github.com/o-complex/storefront-backend/internal/checkout"
	ordersvc "github.com/o-complex/storefront-backend/internal/orders"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/format"
	"github.com/o-complex/storefront-backend/pkg/logger"
)

// RecentLister exposes the journal's read side; satisfied by
// internal/orders.Journal.
type RecentLister interface {
	Recent(ctx context.Context, limit int) ([]ordersvc.Entry, error)
}

type confirmationLine struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type confirmationView struct {
	Items               []confirmationLine `json:"items"`
	TotalPrice          string             `json:"total_price"`
	TotalPriceFormatted string             `json:"total_price_formatted"`
}

// Checkout runs the order workflow against the session's cart. Success
// answers with the confirmation snapshot; every failure leaves the cart
// untouched and surfaces the reason.
func Checkout(manager *cartsvc.Manager, workflow *checkout.Workflow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil || workflow == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing from request context"))
			return
		}

		store, err := manager.ForSession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := workflow.Submit(r.Context(), sessionID, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := confirmationView{
			Items:               make([]confirmationLine, 0, len(confirmation.Lines)),
			TotalPrice:          confirmation.Total.String(),
			TotalPriceFormatted: format.Currency(confirmation.Total),
		}
		for _, line := range confirmation.Lines {
			view.Items = append(view.Items, confirmationLine{
				ID:       line.ProductID,
				Title:    line.Product.Title,
				Price:    line.Product.Price,
				Quantity: line.Quantity,
			})
		}

		responses.WriteSuccess(w, view)
	}
}

// Recent lists the latest journaled submissions for operators.
func Recent(journal RecentLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if journal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order journal unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := journal.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}
