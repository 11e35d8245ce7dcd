package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ViewLine is the projection of one cart line for API responses.
type ViewLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CreditPrice decimal.Decimal `json:"credit_price"`
	Stock       int             `json:"stock"`
}

// View is the full cart projection. Every mutation recomputes and returns it,
// so callers always render from a consistent snapshot.
type View struct {
	Lines       []ViewLine      `json:"lines"`
	ItemCount   int             `json:"item_count"`
	CashTotal   decimal.Decimal `json:"cash_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
}

// BuildView folds the cart lines into the renderable projection.
func BuildView(lines []Line) View {
	view := View{
		Lines:       make([]ViewLine, 0, len(lines)),
		CashTotal:   decimal.Zero,
		CreditTotal: decimal.Zero,
	}
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		view.Lines = append(view.Lines, ViewLine{
			ProductID:   line.Product.ID,
			Name:        line.Product.Name,
			ImageURL:    line.Product.MainImageURL(),
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			CreditPrice: line.Product.EffectiveCreditPrice(),
			Stock:       line.Product.Stock,
		})
		view.ItemCount += line.Quantity
		view.CashTotal = view.CashTotal.Add(line.Product.Price.Mul(qty))
		view.CreditTotal = view.CreditTotal.Add(line.Product.EffectiveCreditPrice().Mul(qty))
	}
	return view
}
