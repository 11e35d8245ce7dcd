package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

func TestStoreUpsertIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	store := NewStore()
	userID := uuid.New()
	product := models.Product{ID: uuid.New(), Name: "Sneaker", Stock: 5}

	store.Upsert(userID, product)
	lines := store.Upsert(userID, product)

	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if store.Quantity(userID, product.ID) != 2 {
		t.Fatalf("quantity lookup disagrees with lines")
	}
}

func TestStoreRemoveDecrementsThenDrops(t *testing.T) {
	t.Parallel()

	store := NewStore()
	userID := uuid.New()
	product := models.Product{ID: uuid.New(), Name: "Sneaker", Stock: 5}
	store.Upsert(userID, product)
	store.Upsert(userID, product)

	lines := store.Remove(userID, product.ID, false)
	if len(lines) != 1 || lines[0].Quantity != 1 {
		t.Fatalf("expected single unit left, got %+v", lines)
	}

	lines = store.Remove(userID, product.ID, false)
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after removing last unit, got %+v", lines)
	}
}

func TestStoreRemoveAllDropsLine(t *testing.T) {
	t.Parallel()

	store := NewStore()
	userID := uuid.New()
	product := models.Product{ID: uuid.New(), Name: "Sneaker", Stock: 5}
	store.Upsert(userID, product)
	store.Upsert(userID, product)
	store.Upsert(userID, product)

	if lines := store.Remove(userID, product.ID, true); len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}
}

func TestBuildViewTotals(t *testing.T) {
	t.Parallel()

	shirt := models.Product{
		ID:          uuid.New(),
		Name:        "Shirt",
		Price:       decimal.NewFromFloat(50),
		CreditPrice: decimal.NewFromFloat(55),
		Stock:       10,
	}
	// No credit price set: the cash price is charged on credit too.
	cap := models.Product{
		ID:    uuid.New(),
		Name:  "Cap",
		Price: decimal.NewFromFloat(20),
		Stock: 3,
	}

	view := BuildView([]Line{
		{Product: shirt, Quantity: 2},
		{Product: cap, Quantity: 1},
	})

	if view.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", view.ItemCount)
	}
	if !view.CashTotal.Equal(decimal.NewFromFloat(120)) {
		t.Fatalf("unexpected cash total: %s", view.CashTotal)
	}
	if !view.CreditTotal.Equal(decimal.NewFromFloat(130)) {
		t.Fatalf("unexpected credit total: %s", view.CreditTotal)
	}
}
