package controllers

import (
	"net/http"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	"github.com/vitrinelabs/vitrine-backend/internal/checkout"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type quoteRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card pix bank_slip"`
}

type confirmRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card pix bank_slip"`
	Zip           string `json:"zip" validate:"required"`
	Street        string `json:"street" validate:"required"`
	City          string `json:"city" validate:"required"`
}

// QuoteCheckout previews totals and installment options without writing
// anything.
func QuoteCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), userID, enums.PaymentMethod(payload.PaymentMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// ConfirmCheckout settles the cart into an order.
func ConfirmCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Confirm(r.Context(), userID, checkout.ConfirmInput{
			Method: enums.PaymentMethod(payload.PaymentMethod),
			Zip:    payload.Zip,
			Street: payload.Street,
			City:   payload.City,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
