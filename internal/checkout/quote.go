package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/internal/cart"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// Quote is the payment preview for the current cart.
type Quote struct {
	Method            enums.PaymentMethod `json:"method"`
	Total             decimal.Decimal     `json:"total"`
	Installments      int                 `json:"installments"`
	InstallmentAmount decimal.Decimal     `json:"installment_amount"`
	CardBrands        []string            `json:"card_brands,omitempty"`
}

// chargeTotal picks the total the method is charged against: credit cards pay
// the credit total, pix and bank slips pay the cash total.
func chargeTotal(view cart.View, method enums.PaymentMethod) decimal.Decimal {
	if method == enums.PaymentMethodCreditCard {
		return view.CreditTotal
	}
	return view.CashTotal
}

// installmentCount applies the storefront rules: two or more units unlock the
// configured maximum, a single unit uses that product's own limit, and bank
// slips always settle in one payment.
func installmentCount(lines []cart.Line, method enums.PaymentMethod, maxInstallments int) int {
	if method == enums.PaymentMethodBankSlip {
		return 1
	}

	totalQty := 0
	for _, line := range lines {
		totalQty += line.Quantity
	}
	switch {
	case totalQty >= 2:
		return maxInstallments
	case totalQty == 1:
		if n := lines[0].Product.Installments; n >= 1 {
			return n
		}
		return 1
	default:
		return 1
	}
}

// allowedBrands unions the card brands across all lines in first-seen order.
func allowedBrands(lines []cart.Line) []string {
	seen := map[string]bool{}
	var brands []string
	for _, line := range lines {
		for _, raw := range line.Product.CardBrands {
			for _, brand := range strings.Split(raw, ",") {
				brand = strings.TrimSpace(brand)
				if brand == "" || seen[brand] {
					continue
				}
				seen[brand] = true
				brands = append(brands, brand)
			}
		}
	}
	return brands
}
