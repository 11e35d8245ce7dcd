package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/api/validators"
	"github.com/vitrinelabs/vitrine-backend/internal/catalog"
	"github.com/vitrinelabs/vitrine-backend/internal/reviews"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type createProductRequest struct {
	Name         string           `json:"name" validate:"required"`
	Description  *string          `json:"description"`
	Price        decimal.Decimal  `json:"price" validate:"required"`
	CreditPrice  *decimal.Decimal `json:"credit_price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	Stock        int              `json:"stock" validate:"min=0"`
	Department   *string          `json:"department"`
	Gender       *string          `json:"gender"`
	Tag          *string          `json:"tag"`
	Installments int              `json:"installments" validate:"omitempty,min=1,max=12"`
	CardBrands   []string         `json:"card_brands"`
	ImageURLs    []string         `json:"image_urls" validate:"omitempty,max=4,dive,url"`
}

func (p createProductRequest) toInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CreditPrice:  p.CreditPrice,
		CostPrice:    p.CostPrice,
		Stock:        p.Stock,
		Department:   p.Department,
		Gender:       p.Gender,
		Tag:          p.Tag,
		Installments: p.Installments,
		CardBrands:   p.CardBrands,
		ImageURLs:    p.ImageURLs,
	}
}

type updateProductRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	CreditPrice  *decimal.Decimal `json:"credit_price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	Department   *string          `json:"department"`
	Gender       *string          `json:"gender"`
	Tag          *string          `json:"tag"`
	Installments *int             `json:"installments" validate:"omitempty,min=1,max=12"`
	CardBrands   []string         `json:"card_brands"`
	ImageURLs    []string         `json:"image_urls" validate:"omitempty,max=4,dive,url"`
}

func (p updateProductRequest) toInput() catalog.UpdateProductInput {
	return catalog.UpdateProductInput{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CreditPrice:  p.CreditPrice,
		CostPrice:    p.CostPrice,
		Department:   p.Department,
		Gender:       p.Gender,
		Tag:          p.Tag,
		Installments: p.Installments,
		CardBrands:   p.CardBrands,
		ImageURLs:    p.ImageURLs,
	}
}

type restockRequest struct {
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	CostPrice *decimal.Decimal `json:"cost_price"`
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter := catalog.ListFilter{
			Department: strings.TrimSpace(r.URL.Query().Get("department")),
			Tag:        strings.TrimSpace(r.URL.Query().Get("tag")),
		}

		products, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetProductRating returns the review aggregate for a product page.
func GetProductRating(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Summary(r.Context(), id))
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminRestockProduct adds inventory and writes the matching ledger entry.
func AdminRestockProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload restockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Restock(r.Context(), id, catalog.RestockInput{
			Quantity:  payload.Quantity,
			CostPrice: payload.CostPrice,
		}, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func pathID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"param": param})
	}
	return id, nil
}
