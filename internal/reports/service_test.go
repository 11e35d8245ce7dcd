package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

type stubReportRepo struct {
	orders    []models.Order
	revenue   decimal.Decimal
	pending   int64
	soldItems []SoldItemRow
	products  []models.Product

	gotStart *time.Time
	gotEnd   *time.Time
}

func (s *stubReportRepo) OrdersBetween(_ context.Context, start, end *time.Time) ([]models.Order, error) {
	s.gotStart = start
	s.gotEnd = end
	return s.orders, nil
}

func (s *stubReportRepo) RevenueSince(context.Context, time.Time) (decimal.Decimal, error) {
	return s.revenue, nil
}

func (s *stubReportRepo) CountByStatus(context.Context, enums.OrderStatus) (int64, error) {
	return s.pending, nil
}

func (s *stubReportRepo) SoldItems(context.Context, []enums.OrderStatus) ([]SoldItemRow, error) {
	return s.soldItems, nil
}

func (s *stubReportRepo) Products(context.Context) ([]models.Product, error) {
	return s.products, nil
}

type stubResolver struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubResolver) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newReportService(t *testing.T, repo *stubReportRepo, resolver *stubResolver) Service {
	t.Helper()
	if resolver == nil {
		resolver = &stubResolver{products: map[uuid.UUID]*models.Product{}}
	}
	svc, err := NewService(repo, resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestSalesExcludesCancelledFromTotals(t *testing.T) {
	t.Parallel()

	repo := &stubReportRepo{orders: []models.Order{
		{Status: enums.OrderStatusPaid, Total: decimal.NewFromFloat(100)},
		{Status: enums.OrderStatusShipped, Total: decimal.NewFromFloat(50)},
		{Status: enums.OrderStatusCancelled, Total: decimal.NewFromFloat(999)},
	}}
	svc := newReportService(t, repo, nil)

	summary, err := svc.Sales(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.OrderCount != 2 {
		t.Fatalf("cancelled orders must not count, got %d", summary.OrderCount)
	}
	if !summary.Revenue.Equal(decimal.NewFromFloat(150)) {
		t.Fatalf("unexpected revenue: %s", summary.Revenue)
	}
	cancelled := summary.ByStatus[enums.OrderStatusCancelled]
	if cancelled.Count != 1 || !cancelled.Revenue.Equal(decimal.NewFromFloat(999)) {
		t.Fatalf("breakdown should still cover cancelled orders, got %+v", cancelled)
	}
}

func TestSalesWidensBoundsToFullDays(t *testing.T) {
	t.Parallel()

	repo := &stubReportRepo{}
	svc := newReportService(t, repo, nil)

	start := time.Date(2026, time.February, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 3, 9, 0, 0, 0, time.UTC)
	if _, err := svc.Sales(context.Background(), &start, &end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	if repo.gotStart == nil || !repo.gotStart.Equal(wantStart) {
		t.Fatalf("expected start %s, got %v", wantStart, repo.gotStart)
	}
	wantEnd := time.Date(2026, time.February, 3, 23, 59, 59, 999_000_000, time.UTC)
	if repo.gotEnd == nil || !repo.gotEnd.Equal(wantEnd) {
		t.Fatalf("expected end %s, got %v", wantEnd, repo.gotEnd)
	}
}

func TestBestSellerResolvesNameAndBreaksTiesFirstSeen(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	repo := &stubReportRepo{soldItems: []SoldItemRow{
		{ProductID: first, Quantity: 2},
		{ProductID: second, Quantity: 1},
		{ProductID: second, Quantity: 1},
	}}
	resolver := &stubResolver{products: map[uuid.UUID]*models.Product{
		first: {ID: first, Name: "Sneaker"},
	}}
	svc := newReportService(t, repo, resolver)

	best, err := svc.BestSeller(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.ProductID != first {
		t.Fatalf("ties resolve to the first-encountered product, got %s", best.ProductID)
	}
	if best.UnitsSold != 2 || best.Name != "Sneaker" {
		t.Fatalf("unexpected best seller: %+v", best)
	}
}

func TestBestSellerTieFavorsEarliestSoldProduct(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	repo := &stubReportRepo{soldItems: []SoldItemRow{
		{ProductID: first, Quantity: 1},
		{ProductID: second, Quantity: 2},
		{ProductID: first, Quantity: 1},
	}}
	svc := newReportService(t, repo, nil)

	best, err := svc.BestSeller(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.ProductID != first {
		t.Fatalf("tie must go to the product sold earliest, got %s", best.ProductID)
	}
	if best.UnitsSold != 2 {
		t.Fatalf("unexpected unit count: %d", best.UnitsSold)
	}
}

func TestBestSellerWithNoSalesIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newReportService(t, &stubReportRepo{}, nil)

	_, err := svc.BestSeller(context.Background())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInventoryValuationTracksExtremes(t *testing.T) {
	t.Parallel()

	repo := &stubReportRepo{products: []models.Product{
		{Name: "Cap", Price: decimal.NewFromFloat(20), Stock: 3},
		{Name: "Watch", Price: decimal.NewFromFloat(500), Stock: 1},
		{Name: "Sock", Price: decimal.NewFromFloat(5), Stock: 10},
	}}
	svc := newReportService(t, repo, nil)

	valuation, err := svc.InventoryValuation(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if valuation.ProductCount != 3 {
		t.Fatalf("unexpected product count: %d", valuation.ProductCount)
	}
	if !valuation.TotalValue.Equal(decimal.NewFromFloat(610)) {
		t.Fatalf("unexpected total value: %s", valuation.TotalValue)
	}
	if valuation.MostExpensive == nil || valuation.MostExpensive.Name != "Watch" {
		t.Fatalf("unexpected most expensive: %+v", valuation.MostExpensive)
	}
	if valuation.Cheapest == nil || valuation.Cheapest.Name != "Sock" {
		t.Fatalf("unexpected cheapest: %+v", valuation.Cheapest)
	}
}

func TestDashboardCombinesRevenueAndPending(t *testing.T) {
	t.Parallel()

	repo := &stubReportRepo{revenue: decimal.NewFromFloat(321.5), pending: 4}
	svc := newReportService(t, repo, nil)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stats.TodayRevenue.Equal(decimal.NewFromFloat(321.5)) || stats.PendingCount != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
