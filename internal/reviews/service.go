package reviews

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

// RatingSummary is the public aggregate for one product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Service defines review operations.
type Service interface {
	Rate(ctx context.Context, productID, userID uuid.UUID, rating int) (*models.ProductReview, error)
	Summary(ctx context.Context, productID uuid.UUID) RatingSummary
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires the review service with its repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Rate(ctx context.Context, productID, userID uuid.UUID, rating int) (*models.ProductReview, error) {
	if productID == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product and user are required")
	}
	if rating < 1 || rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
	}
	if err := s.repo.Upsert(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save review")
	}

	// The conflict-update path leaves the inserted struct without the stored
	// row's id and timestamps, so read the row back.
	stored, err := s.repo.GetByProductAndUser(ctx, productID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return stored, nil
}

// Summary is best-effort: a read failure logs a warning and yields zeros so
// the product page still renders.
func (s *service) Summary(ctx context.Context, productID uuid.UUID) RatingSummary {
	summary, err := s.repo.Summarize(ctx, productID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", productID.String()), "failed to load rating summary")
		}
		return RatingSummary{}
	}
	return RatingSummary{
		Average: math.Round(summary.Average*10) / 10,
		Count:   summary.Count,
	}
}
