package kardex

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// Service defines operations over the stock ledger.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.StockMovement, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	History(ctx context.Context, productID uuid.UUID) (*ProductHistory, error)
}

// ProductHistory is one product's full movement chain, oldest first.
// Consistent reports whether every link carries forward the previous entry's
// closing stock.
type ProductHistory struct {
	Movements  []models.StockMovement `json:"movements"`
	Consistent bool                   `json:"consistent"`
}

// RecordInput captures the immutable data a movement requires.
type RecordInput struct {
	ProductID     uuid.UUID
	Quantity      int
	Type          enums.StockMovementType
	PreviousStock int
	CurrentStock  int
	OrderID       *uuid.UUID
	UserID        *uuid.UUID
}

// ListInput carries admin listing parameters.
type ListInput struct {
	Search string
	Limit  int
	Cursor string
}

// ListResult is one page of ledger rows plus the cursor for the next page.
type ListResult struct {
	Movements  []MovementRow
	NextCursor string
}

type service struct {
	repo Repository
}

// NewService wires a kardex service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("kardex repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.StockMovement, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock movement type %q", input.Type))
	}
	if input.CurrentStock != input.PreviousStock+input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock movement does not balance").
			WithDetails(map[string]any{
				"previous_stock": input.PreviousStock,
				"quantity":       input.Quantity,
				"current_stock":  input.CurrentStock,
			})
	}

	movement := &models.StockMovement{
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		Type:          input.Type,
		PreviousStock: input.PreviousStock,
		CurrentStock:  input.CurrentStock,
		OrderID:       input.OrderID,
		UserID:        input.UserID,
	}

	if err := s.repo.Create(ctx, movement); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
	}
	return movement, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, ListFilter{
		Search: input.Search,
		Limit:  input.Limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &ListResult{Movements: rows}
	if len(rows) > limit {
		result.Movements = rows[:limit]
		last := result.Movements[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) History(ctx context.Context, productID uuid.UUID) (*ProductHistory, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	movements, err := s.repo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product movements")
	}

	history := &ProductHistory{Movements: movements, Consistent: true}
	for i := 1; i < len(movements); i++ {
		if movements[i].PreviousStock != movements[i-1].CurrentStock {
			history.Consistent = false
			break
		}
	}
	return history, nil
}
