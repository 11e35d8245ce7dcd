package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/internal/catalog"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// Service defines the storefront cart operations. Every mutation returns the
// recomputed view so the caller never renders stale totals.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (View, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (View, error)
	Remove(ctx context.Context, userID, productID uuid.UUID, removeAll bool) (View, error)
	Snapshot(userID uuid.UUID) []Line
	Clear(userID uuid.UUID)
}

type service struct {
	store   *Store
	catalog catalog.Service
}

// NewService wires the cart service over the in-memory store and the catalog.
func NewService(store *Store, catalogService catalog.Service) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalogService == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{store: store, catalog: catalogService}, nil
}

func (s *service) Get(_ context.Context, userID uuid.UUID) (View, error) {
	return BuildView(s.store.Lines(userID)), nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (View, error) {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return BuildView(s.store.Lines(userID)), err
	}

	if product.Stock <= 0 {
		return BuildView(s.store.Lines(userID)), pkgerrors.New(pkgerrors.CodeValidation, "out of stock")
	}
	if s.store.Quantity(userID, productID)+1 > product.Stock {
		return BuildView(s.store.Lines(userID)), pkgerrors.New(pkgerrors.CodeValidation, "stock limit reached")
	}

	return BuildView(s.store.Upsert(userID, *product)), nil
}

func (s *service) Remove(_ context.Context, userID, productID uuid.UUID, removeAll bool) (View, error) {
	return BuildView(s.store.Remove(userID, productID, removeAll)), nil
}

func (s *service) Snapshot(userID uuid.UUID) []Line {
	return s.store.Lines(userID)
}

func (s *service) Clear(userID uuid.UUID) {
	s.store.Clear(userID)
}
