package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/kardex"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	updated  *models.Product
}

func newStubProductRepo(products ...*models.Product) *stubProductRepo {
	repo := &stubProductRepo{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = uuid.New()
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepo) Update(_ context.Context, product *models.Product) error {
	s.updated = product
	s.products[product.ID] = product
	return nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) List(context.Context, ListFilter) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) AdjustStock(_ context.Context, productID uuid.UUID, delta int, clampZero bool) (int, int, error) {
	product, ok := s.products[productID]
	if !ok {
		return 0, 0, gorm.ErrRecordNotFound
	}
	previous := product.Stock
	current := previous + delta
	if clampZero && current < 0 {
		current = 0
	}
	product.Stock = current
	return previous, current, nil
}

type ledgerRepo struct {
	movements []models.StockMovement
}

func (l *ledgerRepo) WithTx(tx *gorm.DB) kardex.Repository { return l }

func (l *ledgerRepo) Create(_ context.Context, movement *models.StockMovement) error {
	l.movements = append(l.movements, *movement)
	return nil
}

func (l *ledgerRepo) List(context.Context, kardex.ListFilter) ([]kardex.MovementRow, error) {
	return nil, nil
}

func (l *ledgerRepo) ListByProductID(context.Context, uuid.UUID) ([]models.StockMovement, error) {
	return nil, nil
}

func newCatalogService(t *testing.T, repo *stubProductRepo) (Service, *ledgerRepo) {
	t.Helper()
	ledger := &ledgerRepo{}
	ledgerSvc, err := kardex.NewService(ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settler, err := kardex.NewSettler(repo, ledgerSvc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc, err := NewService(repo, settler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, ledger
}

func TestCreateValidatesAndDefaults(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	svc, _ := newCatalogService(t, repo)

	_, err := svc.Create(context.Background(), CreateProductInput{Price: decimal.NewFromFloat(10)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateProductInput{Name: "Sneaker", Price: decimal.NewFromFloat(-1)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	product, err := svc.Create(context.Background(), CreateProductInput{
		Name:  "Sneaker",
		Price: decimal.NewFromFloat(99.9),
		Stock: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Installments != 1 {
		t.Fatalf("installments should default to 1, got %d", product.Installments)
	}
	if !product.CreditPrice.Equal(product.Price) {
		t.Fatalf("credit price should default to the cash price, got %s", product.CreditPrice)
	}
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	existing := &models.Product{
		ID:           uuid.New(),
		Name:         "Sneaker",
		Price:        decimal.NewFromFloat(100),
		CreditPrice:  decimal.NewFromFloat(110),
		Stock:        5,
		Installments: 6,
	}
	repo := newStubProductRepo(existing)
	svc, _ := newCatalogService(t, repo)

	newPrice := decimal.NewFromFloat(80)
	updated, err := svc.Update(context.Background(), existing.ID, UpdateProductInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("price should change, got %s", updated.Price)
	}
	if updated.Name != "Sneaker" || updated.Installments != 6 {
		t.Fatalf("untouched fields should survive, got %+v", updated)
	}
}

func TestRestockAddsStockAndWritesLedger(t *testing.T) {
	t.Parallel()

	existing := &models.Product{ID: uuid.New(), Name: "Sneaker", Price: decimal.NewFromFloat(100), Stock: 2}
	repo := newStubProductRepo(existing)
	svc, ledger := newCatalogService(t, repo)
	actorID := uuid.New()

	product, err := svc.Restock(context.Background(), existing.ID, RestockInput{Quantity: 8}, actorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Stock != 10 {
		t.Fatalf("expected stock 10, got %d", product.Stock)
	}
	if len(ledger.movements) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(ledger.movements))
	}
	movement := ledger.movements[0]
	if movement.Type != enums.StockMovementRestock || movement.Quantity != 8 {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if movement.UserID == nil || *movement.UserID != actorID {
		t.Fatalf("movement should carry the acting admin, got %v", movement.UserID)
	}
}

func TestRestockRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	repo := newStubProductRepo()
	svc, _ := newCatalogService(t, repo)

	_, err := svc.Restock(context.Background(), uuid.New(), RestockInput{Quantity: 0}, uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}
