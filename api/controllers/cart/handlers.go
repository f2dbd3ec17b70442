package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-complex/storefront-backend/api/middleware"
	"github.com/o-complex/storefront-backend/api/responses"
	"github.com/o-complex/storefront-backend/api/validators"
	cartsvc "github.com/o-complex/storefront-backend/internal/cart"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/shop"
)

// CartFetch returns the session's cart with totals.
func CartFetch(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartAddItem records one more unit of the posted product snapshot.
func CartAddItem(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product := shop.Product{
			ID:          payload.ID,
			Title:       validators.SanitizeString(payload.Title, 500),
			Description: payload.Description,
			Price:       payload.Price,
			ImageURL:    payload.ImageURL,
		}
		if err := store.Add(r.Context(), product); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartSetQuantity sets the absolute quantity of one line; zero or less
// removes it.
func CartSetQuantity(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLParamInt(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload SetQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.SetQuantity(r.Context(), productID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartRemoveItem drops one line from the cart; absent lines are a no-op.
func CartRemoveItem(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLParamInt(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Remove(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartSetPhone stores the contact phone verbatim.
func CartSetPhone(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFromRequest(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload SetPhoneRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.SetPhone(r.Context(), validators.SanitizeString(payload.Phone, 64)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(store))
	}
}

func storeFromRequest(r *http.Request, manager *cartsvc.Manager) (*cartsvc.Store, error) {
	if manager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session missing from request context")
	}
	return manager.ForSession(r.Context(), sessionID)
}
