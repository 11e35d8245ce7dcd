package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// Summary aggregates ratings for one product.
type Summary struct {
	Average float64 `gorm:"column:average"`
	Count   int64   `gorm:"column:count"`
}

// Repository manages persistence for product reviews.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, review *models.ProductReview) error
	Summarize(ctx context.Context, productID uuid.UUID) (*Summary, error)
	GetByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*models.ProductReview, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a review repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Upsert(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(review).Error
}

func (r *repository) Summarize(ctx context.Context, productID uuid.UUID) (*Summary, error) {
	var summary Summary
	err := r.db.WithContext(ctx).
		Model(&models.ProductReview{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) GetByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*models.ProductReview, error) {
	var review models.ProductReview
	if err := r.db.WithContext(ctx).
		First(&review, "product_id = ? AND user_id = ?", productID, userID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}
