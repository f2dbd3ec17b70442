package controllers

import (
	"net/http"

	"github.com/o-complex/storefront-backend/api/responses"
	"github.com/o-complex/storefront-backend/api/validators"
	"github.com/o-complex/storefront-backend/internal/catalog"
	"github.com/o-complex/storefront-backend/internal/checkout"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/shop"
)

type orderItemPayload struct {
	ID       int `json:"id" validate:"required,gt=0"`
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type orderPayload struct {
	Phone string             `json:"phone" validate:"required"`
	Cart  []orderItemPayload `json:"cart" validate:"required,min=1,dive"`
}

// Order is the wire-compatible order proxy: the request and response shapes
// match the upstream API exactly. An explicit upstream rejection still
// answers 200 with {"success":0}; only a transport failure maps to 500.
func Order(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload orderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		digits, err := checkout.ValidatePhone(payload.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order := shop.OrderRequest{
			Phone: digits,
			Cart:  make([]shop.OrderItem, 0, len(payload.Cart)),
		}
		for _, item := range payload.Cart {
			order.Cart = append(order.Cart, shop.OrderItem{ID: item.ID, Quantity: item.Quantity})
		}

		resp, transportErr := svc.ProxyOrder(r.Context(), order)
		status := http.StatusOK
		if transportErr != nil {
			status = http.StatusInternalServerError
		}
		responses.WriteJSON(w, status, resp)
	}
}
