package kardex

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// MovementRow is a ledger entry joined with the product it concerns.
type MovementRow struct {
	models.StockMovement
	ProductName string `gorm:"column:product_name"`
}

// ListFilter narrows the admin ledger listing.
type ListFilter struct {
	Search string
	Limit  int
	Cursor *pagination.Cursor
}

// Repository manages persistence for stock movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, movement *models.StockMovement) error
	List(ctx context.Context, filter ListFilter) ([]MovementRow, error)
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a movement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, movement *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]MovementRow, error) {
	limit := pagination.LimitWithBuffer(filter.Limit)

	query := r.db.WithContext(ctx).
		Table("stock_movements").
		Select("stock_movements.*, products.name AS product_name").
		Joins("JOIN products ON products.id = stock_movements.product_id").
		Order("stock_movements.created_at DESC, stock_movements.id DESC").
		Limit(limit)

	if filter.Search != "" {
		query = query.Where("LOWER(products.name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(stock_movements.created_at, stock_movements.id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var rows []MovementRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
