package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// AdminRow is an order joined with the buyer for the back-office listing.
type AdminRow struct {
	models.Order
	BuyerName string `gorm:"column:buyer_name"`
}

// ItemRow is an order item joined with its product projection.
type ItemRow struct {
	models.OrderItem
	ProductName  string `gorm:"column:product_name"`
	ProductImage string `gorm:"column:product_image"`
}

// AdminListFilter narrows the back-office order listing.
type AdminListFilter struct {
	Limit  int
	Cursor *pagination.Cursor
}

// Repository manages persistence for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetStatus(ctx context.Context, id uuid.UUID) (enums.OrderStatus, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAdmin(ctx context.Context, filter AdminListFilter) ([]AdminRow, error)
	ItemsWithProduct(ctx context.Context, orderID uuid.UUID) ([]ItemRow, error)
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) GetStatus(ctx context.Context, id uuid.UUID) (enums.OrderStatus, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Select("id", "status").
		First(&order, "id = ?", id).Error; err != nil {
		return "", err
	}
	return order.Status, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListAdmin(ctx context.Context, filter AdminListFilter) ([]AdminRow, error) {
	limit := pagination.LimitWithBuffer(filter.Limit)

	query := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, users.full_name AS buyer_name").
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC, orders.id DESC").
		Limit(limit)

	if filter.Cursor != nil {
		query = query.Where(
			"(orders.created_at, orders.id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var rows []AdminRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ItemsWithProduct(ctx context.Context, orderID uuid.UUID) ([]ItemRow, error) {
	var rows []ItemRow
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, products.name AS product_name, products.image_urls[1] AS product_image").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) Delete(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.Order{}, "id = ?", orderID).Error
}
