package controllers

import (
	"net/http"
	"strings"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	"github.com/vitrinelabs/vitrine-backend/internal/kardex"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// AdminListStockMovements pages through the stock ledger, optionally filtered
// by product name.
func AdminListStockMovements(svc kardex.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kardex service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), kardex.ListInput{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"movements":   result.Movements,
			"next_cursor": result.NextCursor,
		})
	}
}

// AdminProductStockHistory returns one product's full movement chain plus a
// consistency verdict over the prev/current links.
func AdminProductStockHistory(svc kardex.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kardex service unavailable"))
			return
		}

		productID, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, history)
	}
}
