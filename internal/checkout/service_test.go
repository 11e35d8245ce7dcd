package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/cart"
	"github.com/vitrinelabs/vitrine-backend/internal/kardex"
	"github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/internal/profiles"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

type stubCart struct {
	lines   []cart.Line
	cleared bool
}

func (s *stubCart) Get(context.Context, uuid.UUID) (cart.View, error) {
	return cart.BuildView(s.lines), nil
}

func (s *stubCart) Add(context.Context, uuid.UUID, uuid.UUID) (cart.View, error) {
	return cart.View{}, nil
}

func (s *stubCart) Remove(context.Context, uuid.UUID, uuid.UUID, bool) (cart.View, error) {
	return cart.View{}, nil
}

func (s *stubCart) Snapshot(uuid.UUID) []cart.Line { return s.lines }

func (s *stubCart) Clear(uuid.UUID) { s.cleared = true }

type stubProfiles struct {
	complete bool
	profile  *profiles.Profile
}

func (s *stubProfiles) Get(context.Context, uuid.UUID) (*profiles.Profile, error) {
	if s.profile == nil {
		return &profiles.Profile{FullName: "Test Buyer"}, nil
	}
	return s.profile, nil
}

func (s *stubProfiles) Update(context.Context, uuid.UUID, profiles.UpdateInput) (*profiles.Profile, error) {
	return nil, nil
}

func (s *stubProfiles) List(context.Context) ([]profiles.Profile, error) { return nil, nil }

func (s *stubProfiles) IsComplete(context.Context, uuid.UUID) (bool, error) {
	return s.complete, nil
}

type stubOrderRepo struct {
	created      *models.Order
	createdItems []models.OrderItem
	createErr    error
	itemsErr     error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(_ context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = uuid.New()
	s.created = order
	return nil
}

func (s *stubOrderRepo) CreateItems(_ context.Context, items []models.OrderItem) error {
	if s.itemsErr != nil {
		return s.itemsErr
	}
	s.createdItems = items
	return nil
}

func (s *stubOrderRepo) GetByID(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) GetStatus(context.Context, uuid.UUID) (enums.OrderStatus, error) {
	return "", gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus) (int64, error) {
	return 0, nil
}

func (s *stubOrderRepo) ListByUser(context.Context, uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) ListAdmin(context.Context, orders.AdminListFilter) ([]orders.AdminRow, error) {
	return nil, nil
}

func (s *stubOrderRepo) ItemsWithProduct(context.Context, uuid.UUID) ([]orders.ItemRow, error) {
	return nil, nil
}

func (s *stubOrderRepo) DeleteItems(context.Context, uuid.UUID) error { return nil }

func (s *stubOrderRepo) Delete(context.Context, uuid.UUID) error { return nil }

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

type stockMap struct {
	stock map[uuid.UUID]int
}

func (s *stockMap) AdjustStock(_ context.Context, productID uuid.UUID, delta int, clampZero bool) (int, int, error) {
	previous := s.stock[productID]
	current := previous + delta
	if clampZero && current < 0 {
		current = 0
	}
	s.stock[productID] = current
	return previous, current, nil
}

type checkoutFixture struct {
	svc      *service
	cart     *stubCart
	orders   *stubOrderRepo
	ledger   *ledgerRepo
	stock    *stockMap
	profiles *stubProfiles
}

func newCheckoutFixture(t *testing.T, lines []cart.Line, profileComplete bool) *checkoutFixture {
	t.Helper()

	cartStub := &stubCart{lines: lines}
	profileStub := &stubProfiles{complete: profileComplete}
	orderRepo := &stubOrderRepo{}
	ledger := &ledgerRepo{}
	stock := &stockMap{stock: map[uuid.UUID]int{}}
	for _, line := range lines {
		stock.stock[line.Product.ID] = line.Product.Stock
	}

	ledgerSvc, err := kardex.NewService(ledger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settler, err := kardex.NewSettler(stock, ledgerSvc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc, err := NewService(config.CheckoutConfig{MaxInstallments: 12, BoletoDueBusinessDays: 3},
		cartStub, profileStub, orderRepo, settler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return &checkoutFixture{
		svc:      svc.(*service),
		cart:     cartStub,
		orders:   orderRepo,
		ledger:   ledger,
		stock:    stock,
		profiles: profileStub,
	}
}

func testLines() []cart.Line {
	return []cart.Line{
		{
			Product: models.Product{
				ID:           uuid.New(),
				Name:         "Sneaker",
				Price:        decimal.NewFromFloat(100),
				CreditPrice:  decimal.NewFromFloat(110),
				Stock:        5,
				Installments: 6,
			},
			Quantity: 2,
		},
	}
}

func TestQuoteRequiresNonEmptyCart(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, nil, true)

	_, err := f.svc.Quote(context.Background(), uuid.New(), enums.PaymentMethodPix)
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "cart is empty" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuoteRequiresCompleteProfile(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, testLines(), false)

	_, err := f.svc.Quote(context.Background(), uuid.New(), enums.PaymentMethodPix)
	if err == nil {
		t.Fatal("expected error for incomplete profile")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "complete your profile before checkout" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuoteCreditCardUsesCreditTotal(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, testLines(), true)

	quote, err := f.svc.Quote(context.Background(), uuid.New(), enums.PaymentMethodCreditCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Total.Equal(decimal.NewFromFloat(220)) {
		t.Fatalf("expected credit total 220, got %s", quote.Total)
	}
	if quote.Installments != 12 {
		t.Fatalf("two units should unlock the maximum installments, got %d", quote.Installments)
	}
}

func TestConfirmRejectsIncompleteAddress(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, testLines(), true)

	_, err := f.svc.Confirm(context.Background(), uuid.New(), ConfirmInput{
		Method: enums.PaymentMethodPix,
		Zip:    "01001-000",
		City:   "Sao Paulo",
	})
	if err == nil {
		t.Fatal("expected error for missing street")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "incomplete address" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfirmPixShipsAndSettlesStock(t *testing.T) {
	t.Parallel()

	lines := testLines()
	f := newCheckoutFixture(t, lines, true)
	userID := uuid.New()

	receipt, err := f.svc.Confirm(context.Background(), userID, ConfirmInput{
		Method: enums.PaymentMethodPix,
		Zip:    "01001-000",
		Street: "Praca da Se, 100",
		City:   "Sao Paulo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receipt.Order.Status != enums.OrderStatusShipped {
		t.Fatalf("pix orders ship immediately, got %s", receipt.Order.Status)
	}
	if receipt.Order.DeliveryAddress != "CEP: 01001-000 | Praca da Se, 100 | Sao Paulo" {
		t.Fatalf("unexpected delivery address: %s", receipt.Order.DeliveryAddress)
	}
	if !receipt.Order.Total.Equal(decimal.NewFromFloat(200)) {
		t.Fatalf("pix charges the cash total, got %s", receipt.Order.Total)
	}
	if receipt.Boleto != nil {
		t.Fatal("pix orders carry no boleto")
	}

	productID := lines[0].Product.ID
	if f.stock.stock[productID] != 3 {
		t.Fatalf("expected stock 3 after settling 2 units, got %d", f.stock.stock[productID])
	}
	if len(f.ledger.movements) != 1 || f.ledger.movements[0].Type != enums.StockMovementSale {
		t.Fatalf("expected one sale movement, got %+v", f.ledger.movements)
	}
	if !f.cart.cleared {
		t.Fatal("cart should be cleared after checkout")
	}
	if len(f.orders.createdItems) != 1 || !f.orders.createdItems[0].PriceAtTime.Equal(decimal.NewFromFloat(100)) {
		t.Fatalf("items should capture the cash price at purchase, got %+v", f.orders.createdItems)
	}
}

func TestConfirmBankSlipSetsDueDateAndBarcode(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, testLines(), true)
	// Thursday: three business days later is Tuesday.
	f.svc.now = func() time.Time {
		return time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	}

	receipt, err := f.svc.Confirm(context.Background(), uuid.New(), ConfirmInput{
		Method: enums.PaymentMethodBankSlip,
		Zip:    "01001-000",
		Street: "Praca da Se, 100",
		City:   "Sao Paulo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receipt.Order.Status != enums.OrderStatusPending {
		t.Fatalf("bank slip orders start pending, got %s", receipt.Order.Status)
	}
	if receipt.Boleto == nil {
		t.Fatal("expected boleto payload")
	}
	wantDue := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	if !receipt.Boleto.DueDate.Equal(wantDue) {
		t.Fatalf("expected due date %s, got %s", wantDue, receipt.Boleto.DueDate)
	}
	if receipt.Order.BoletoBarcode == nil || *receipt.Order.BoletoBarcode != receipt.Boleto.Barcode {
		t.Fatal("order and payload should carry the same barcode")
	}
	if receipt.Boleto.PayerName != "Test Buyer" {
		t.Fatalf("unexpected payer name: %s", receipt.Boleto.PayerName)
	}
}
