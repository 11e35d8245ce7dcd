package kardex

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

func TestHistoryRequiresProductID(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubMovementRepo{})

	_, err := svc.History(context.Background(), uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHistoryReportsConsistentChain(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	repo := &stubMovementRepo{history: []models.StockMovement{
		{ProductID: productID, Type: enums.StockMovementRestock, Quantity: 10, PreviousStock: 0, CurrentStock: 10},
		{ProductID: productID, Type: enums.StockMovementSale, Quantity: -4, PreviousStock: 10, CurrentStock: 6},
		{ProductID: productID, Type: enums.StockMovementCancellation, Quantity: 4, PreviousStock: 6, CurrentStock: 10},
	}}
	svc, _ := NewService(repo)

	history, err := svc.History(context.Background(), productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history.Movements) != 3 {
		t.Fatalf("expected three movements, got %d", len(history.Movements))
	}
	if !history.Consistent {
		t.Fatal("an unbroken chain should report consistent")
	}
}

func TestHistoryFlagsBrokenChain(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	repo := &stubMovementRepo{history: []models.StockMovement{
		{ProductID: productID, Type: enums.StockMovementRestock, Quantity: 10, PreviousStock: 0, CurrentStock: 10},
		{ProductID: productID, Type: enums.StockMovementSale, Quantity: -2, PreviousStock: 7, CurrentStock: 5},
	}}
	svc, _ := NewService(repo)

	history, err := svc.History(context.Background(), productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.Consistent {
		t.Fatal("a gap between entries should flag the chain")
	}
}
