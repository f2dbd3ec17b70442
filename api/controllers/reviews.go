package controllers

import (
	"net/http"

	"github.com/o-complex/storefront-backend/api/responses"
	"github.com/o-complex/storefront-backend/internal/catalog"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
)

// Reviews proxies the review list in the upstream wire shape with bodies
// already sanitized. Failures answer 500 with an empty array.
func Reviews(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		reviews, err := svc.FetchReviews(r.Context())
		status := http.StatusOK
		if err != nil {
			status = http.StatusInternalServerError
		}
		responses.WriteJSON(w, status, reviews)
	}
}
