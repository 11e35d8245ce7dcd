package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// SoldItemRow is one order item from a countable order, in item creation order.
type SoldItemRow struct {
	ProductID uuid.UUID `gorm:"column:product_id"`
	Quantity  int       `gorm:"column:quantity"`
}

// Repository exposes the read queries reporting folds over.
type Repository interface {
	OrdersBetween(ctx context.Context, start, end *time.Time) ([]models.Order, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	SoldItems(ctx context.Context, statuses []enums.OrderStatus) ([]SoldItemRow, error)
	Products(ctx context.Context) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reporting repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrdersBetween(ctx context.Context, start, end *time.Time) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at <= ?", *end)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Revenue decimal.Decimal `gorm:"column:revenue"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("created_at >= ? AND status <> ?", since, enums.OrderStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Revenue, nil
}

func (r *repository) CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) SoldItems(ctx context.Context, statuses []enums.OrderStatus) ([]SoldItemRow, error) {
	var rows []SoldItemRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, order_items.quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", statuses).
		Order("order_items.created_at ASC, order_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
