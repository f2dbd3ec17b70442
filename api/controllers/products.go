package controllers

import (
	"net/http"

	"github.com/o-complex/storefront-backend/api/responses"
	"github.com/o-complex/storefront-backend/api/validators"
	"github.com/o-complex/storefront-backend/internal/catalog"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
)

// Products proxies one catalog page in the upstream wire shape. A failed
// fetch still answers with the zero-filled page body so the front end always
// has something renderable, but under status 500.
func Products(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", svc.PageSize(), 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, fetchErr := svc.FetchPageSized(r.Context(), page, pageSize)
		status := http.StatusOK
		if fetchErr != nil {
			status = http.StatusInternalServerError
		}
		responses.WriteJSON(w, status, result)
	}
}
