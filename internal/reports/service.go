package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// StatusBreakdown is the per-status slice of a sales summary.
type StatusBreakdown struct {
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SalesSummary aggregates orders over a date window. Revenue and order count
// exclude cancelled orders; the per-status breakdown covers the full set.
type SalesSummary struct {
	OrderCount int64                                 `json:"order_count"`
	Revenue    decimal.Decimal                       `json:"revenue"`
	ByStatus   map[enums.OrderStatus]StatusBreakdown `json:"by_status"`
}

// DashboardStats is the admin landing snapshot.
type DashboardStats struct {
	TodayRevenue decimal.Decimal `json:"today_revenue"`
	PendingCount int64           `json:"pending_count"`
}

// BestSeller names the product with the highest settled unit count.
type BestSeller struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitsSold int       `json:"units_sold"`
}

// InventoryValuation is the catalog worth snapshot.
type InventoryValuation struct {
	TotalValue    decimal.Decimal `json:"total_value"`
	ProductCount  int             `json:"product_count"`
	MostExpensive *models.Product `json:"most_expensive,omitempty"`
	Cheapest      *models.Product `json:"cheapest,omitempty"`
}

// countableStatuses are the order states whose items count toward sales.
var countableStatuses = []enums.OrderStatus{
	enums.OrderStatusPaid,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

// ProductResolver looks up a product by id, used to name the best seller.
type ProductResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service defines the reporting reads.
type Service interface {
	Sales(ctx context.Context, start, end *time.Time) (*SalesSummary, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
	BestSeller(ctx context.Context) (*BestSeller, error)
	InventoryValuation(ctx context.Context) (*InventoryValuation, error)
}

type service struct {
	repo     Repository
	products ProductResolver
	now      func() time.Time
}

// NewService wires the reporting service.
func NewService(repo Repository, products ProductResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	return &service{repo: repo, products: products, now: time.Now}, nil
}

// Sales widens the date-only bounds to cover the full start and end days in UTC.
func (s *service) Sales(ctx context.Context, start, end *time.Time) (*SalesSummary, error) {
	var from, to *time.Time
	if start != nil {
		f := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		from = &f
	}
	if end != nil {
		t := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999_000_000, time.UTC)
		to = &t
	}

	orders, err := s.repo.OrdersBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch orders")
	}

	summary := &SalesSummary{
		Revenue:  decimal.Zero,
		ByStatus: map[enums.OrderStatus]StatusBreakdown{},
	}
	for _, order := range orders {
		slice := summary.ByStatus[order.Status]
		slice.Count++
		slice.Revenue = slice.Revenue.Add(order.Total)
		summary.ByStatus[order.Status] = slice

		if order.Status == enums.OrderStatusCancelled {
			continue
		}
		summary.OrderCount++
		summary.Revenue = summary.Revenue.Add(order.Total)
	}
	return summary, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	revenue, err := s.repo.RevenueSince(ctx, startOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch today revenue")
	}
	pending, err := s.repo.CountByStatus(ctx, enums.OrderStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	return &DashboardStats{TodayRevenue: revenue, PendingCount: pending}, nil
}

// BestSeller totals settled item rows per product, then picks the maximum in
// first-encountered order, so ties resolve to the product sold earliest.
func (s *service) BestSeller(ctx context.Context) (*BestSeller, error) {
	rows, err := s.repo.SoldItems(ctx, countableStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch sold items")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no sales recorded")
	}

	totals := map[uuid.UUID]int{}
	var order []uuid.UUID
	for _, row := range rows {
		if _, seen := totals[row.ProductID]; !seen {
			order = append(order, row.ProductID)
		}
		totals[row.ProductID] += row.Quantity
	}

	var best uuid.UUID
	bestUnits := 0
	for _, id := range order {
		if totals[id] > bestUnits {
			bestUnits = totals[id]
			best = id
		}
	}

	result := &BestSeller{ProductID: best, UnitsSold: bestUnits}
	product, err := s.products.GetByID(ctx, best)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve best seller")
		}
		return result, nil
	}
	result.Name = product.Name
	return result, nil
}

func (s *service) InventoryValuation(ctx context.Context) (*InventoryValuation, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch products")
	}

	valuation := &InventoryValuation{TotalValue: decimal.Zero, ProductCount: len(products)}
	for i := range products {
		product := products[i]
		valuation.TotalValue = valuation.TotalValue.Add(
			product.Price.Mul(decimal.NewFromInt(int64(product.Stock))),
		)
		if valuation.MostExpensive == nil || product.Price.GreaterThan(valuation.MostExpensive.Price) {
			valuation.MostExpensive = &products[i]
		}
		if valuation.Cheapest == nil || product.Price.LessThan(valuation.Cheapest.Price) {
			valuation.Cheapest = &products[i]
		}
	}
	return valuation, nil
}
