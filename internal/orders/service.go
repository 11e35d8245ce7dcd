package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/kardex"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// Detail is an order with its product-joined items.
type Detail struct {
	Order models.Order `json:"order"`
	Items []ItemRow    `json:"items"`
}

// AdminListInput carries back-office listing parameters.
type AdminListInput struct {
	Limit  int
	Cursor string
}

// AdminListResult is one page of admin rows plus the cursor for the next page.
type AdminListResult struct {
	Orders     []AdminRow
	NextCursor string
}

// Service defines buyer history reads and the admin status state machine.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	Get(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) (*Detail, error)
	ListAdmin(ctx context.Context, input AdminListInput) (*AdminListResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actorID uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo    Repository
	settler *kardex.Settler
}

// NewService wires the order service with its repository and the stock settler.
func NewService(repo Repository, settler *kardex.Settler) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if settler == nil {
		return nil, fmt.Errorf("stock settler required")
	}
	return &service{repo: repo, settler: settler}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) Get(ctx context.Context, orderID, requesterID uuid.UUID, isAdmin bool) (*Detail, error) {
	order, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	items, err := s.repo.ItemsWithProduct(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch order items")
	}
	return &Detail{Order: *order, Items: items}, nil
}

func (s *service) ListAdmin(ctx context.Context, input AdminListInput) (*AdminListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListAdmin(ctx, AdminListFilter{Limit: input.Limit, Cursor: cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &AdminListResult{Orders: rows}
	if len(rows) > limit {
		result.Orders = rows[:limit]
		last := result.Orders[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// UpdateStatus re-reads the current status, applies the transition, and
// compensates stock when the order crosses the cancelled boundary. A write
// that affects zero rows surfaces as access denied rather than a dependency
// failure.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actorID uuid.UUID) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	previous, err := s.repo.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order status")
	}

	affected, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	if err := s.compensateStock(ctx, orderID, previous, status, actorID); err != nil {
		return nil, err
	}

	return s.fetch(ctx, orderID)
}

// compensateStock returns units when an order enters cancelled and takes them
// back (clamped at zero) when it leaves cancelled. Other transitions never
// touch stock.
func (s *service) compensateStock(ctx context.Context, orderID uuid.UUID, previous, next enums.OrderStatus, actorID uuid.UUID) error {
	entering := next == enums.OrderStatusCancelled && previous != enums.OrderStatusCancelled
	leaving := previous == enums.OrderStatusCancelled && next != enums.OrderStatusCancelled
	if !entering && !leaving {
		return nil
	}

	order, err := s.fetch(ctx, orderID)
	if err != nil {
		return err
	}

	var userID *uuid.UUID
	if actorID != uuid.Nil {
		userID = &actorID
	}

	for _, item := range order.Items {
		delta := item.Quantity
		movementType := enums.StockMovementCancellation
		if leaving {
			delta = -item.Quantity
			movementType = enums.StockMovementReactivation
		}
		if _, err := s.settler.Apply(ctx, kardex.ApplyInput{
			ProductID: item.ProductID,
			Delta:     delta,
			Type:      movementType,
			OrderID:   &orderID,
			UserID:    userID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle stock compensation").
				WithDetails(map[string]any{"product_id": item.ProductID, "step": "stock_compensation"})
		}
	}
	return nil
}

// Delete removes a cancelled order and its items. Stock is untouched: the
// cancellation already returned the units.
func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	status, err := s.repo.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order status")
	}
	if status != enums.OrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only cancelled orders can be deleted").
			WithDetails(map[string]any{"status": status})
	}

	if err := s.repo.DeleteItems(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order items")
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) fetch(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch order")
	}
	return order, nil
}
