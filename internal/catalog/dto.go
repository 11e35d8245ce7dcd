package catalog

import (
	"github.com/shopspring/decimal"
)

// CreateProductInput holds the admin create payload after DTO validation.
type CreateProductInput struct {
	Name         string
	Description  *string
	Price        decimal.Decimal
	CreditPrice  *decimal.Decimal
	CostPrice    *decimal.Decimal
	Stock        int
	Department   *string
	Gender       *string
	Tag          *string
	Installments int
	CardBrands   []string
	ImageURLs    []string
}

// UpdateProductInput carries partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	CreditPrice  *decimal.Decimal
	CostPrice    *decimal.Decimal
	Department   *string
	Gender       *string
	Tag          *string
	Installments *int
	CardBrands   []string
	ImageURLs    []string
}

// RestockInput describes a manual stock entry.
type RestockInput struct {
	Quantity  int
	CostPrice *decimal.Decimal
}
