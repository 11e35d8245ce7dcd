package kardex

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// StockAdjuster applies a guarded stock delta and reports the before/after values.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int, clampZero bool) (previous int, current int, err error)
}

// Settler is the single path for stock-affecting events: it moves live stock
// and appends the matching ledger entry. Sales and reactivations clamp at
// zero; cancellations and restocks are pure additions.
type Settler struct {
	adjuster StockAdjuster
	ledger   Service
}

// ApplyInput describes one stock-affecting event.
type ApplyInput struct {
	ProductID uuid.UUID
	Delta     int
	Type      enums.StockMovementType
	OrderID   *uuid.UUID
	UserID    *uuid.UUID
}

// NewSettler wires a settler over the stock adjuster and ledger service.
func NewSettler(adjuster StockAdjuster, ledger Service) (*Settler, error) {
	if adjuster == nil {
		return nil, fmt.Errorf("stock adjuster required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("kardex service required")
	}
	return &Settler{adjuster: adjuster, ledger: ledger}, nil
}

// Apply adjusts live stock and records the movement. The recorded quantity is
// the delta actually applied, so a clamped sale still balances the ledger.
func (s *Settler) Apply(ctx context.Context, input ApplyInput) (*models.StockMovement, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid stock movement type %q", input.Type)
	}

	clampZero := input.Type == enums.StockMovementSale || input.Type == enums.StockMovementReactivation

	previous, current, err := s.adjuster.AdjustStock(ctx, input.ProductID, input.Delta, clampZero)
	if err != nil {
		return nil, err
	}

	return s.ledger.Record(ctx, RecordInput{
		ProductID:     input.ProductID,
		Quantity:      current - previous,
		Type:          input.Type,
		PreviousStock: previous,
		CurrentStock:  current,
		OrderID:       input.OrderID,
		UserID:        input.UserID,
	})
}
