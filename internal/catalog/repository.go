package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// ErrStockContention is returned when the guarded stock update keeps losing
// the compare-and-set race.
var ErrStockContention = fmt.Errorf("stock update contention")

const adjustStockAttempts = 3

// ListFilter narrows the public catalog listing.
type ListFilter struct {
	Department string
	Tag        string
}

// Repository manages persistence for products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int, clampZero bool) (int, int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a product repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Tag != "" {
		query = query.Where("LOWER(tag) LIKE LOWER(?)", "%"+filter.Tag+"%")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// AdjustStock applies a guarded delta to live stock. The UPDATE only lands
// when stock still holds the value just read, so concurrent settlements
// cannot double-spend the same units.
func (r *repository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, clampZero bool) (int, int, error) {
	for attempt := 0; attempt < adjustStockAttempts; attempt++ {
		var product models.Product
		if err := r.db.WithContext(ctx).
			Select("id", "stock").
			First(&product, "id = ?", productID).Error; err != nil {
			return 0, 0, err
		}

		target := product.Stock + delta
		if clampZero && target < 0 {
			target = 0
		}

		result := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND stock = ?", productID, product.Stock).
			Update("stock", target)
		if result.Error != nil {
			return 0, 0, result.Error
		}
		if result.RowsAffected == 1 {
			return product.Stock, target, nil
		}
	}
	return 0, 0, ErrStockContention
}
