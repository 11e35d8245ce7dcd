package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitrinelabs/vitrine-backend/internal/cart"
	"github.com/vitrinelabs/vitrine-backend/internal/kardex"
	"github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/internal/profiles"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// ConfirmInput is the checkout confirmation payload.
type ConfirmInput struct {
	Method enums.PaymentMethod
	Zip    string
	Street string
	City   string
}

// Receipt is the result of a confirmed checkout.
type Receipt struct {
	Order  models.Order   `json:"order"`
	Boleto *BoletoPayload `json:"boleto,omitempty"`
}

// Service orchestrates quoting and confirming a checkout.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*Quote, error)
	Confirm(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*Receipt, error)
}

type service struct {
	cfg      config.CheckoutConfig
	cart     cart.Service
	profiles profiles.Service
	orders   orders.Repository
	settler  *kardex.Settler
	now      func() time.Time
}

// NewService wires the checkout orchestrator.
func NewService(
	cfg config.CheckoutConfig,
	cartService cart.Service,
	profileService profiles.Service,
	orderRepo orders.Repository,
	settler *kardex.Settler,
) (Service, error) {
	if cartService == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if profileService == nil {
		return nil, fmt.Errorf("profile service required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if settler == nil {
		return nil, fmt.Errorf("stock settler required")
	}
	if cfg.MaxInstallments < 1 {
		cfg.MaxInstallments = 12
	}
	if cfg.BoletoDueBusinessDays < 1 {
		cfg.BoletoDueBusinessDays = 3
	}
	return &service{
		cfg:      cfg,
		cart:     cartService,
		profiles: profileService,
		orders:   orderRepo,
		settler:  settler,
		now:      time.Now,
	}, nil
}

func (s *service) Quote(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod) (*Quote, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
	}

	lines, err := s.preconditions(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := cart.BuildView(lines)
	total := chargeTotal(view, method)
	count := installmentCount(lines, method, s.cfg.MaxInstallments)

	quote := &Quote{
		Method:            method,
		Total:             total,
		Installments:      count,
		InstallmentAmount: total.Div(decimal.NewFromInt(int64(count))).Round(2),
	}
	if method == enums.PaymentMethodCreditCard {
		quote.CardBrands = allowedBrands(lines)
	}
	return quote, nil
}

// Confirm settles the cart into an order. The order insert, item insert, and
// per-line settlement are separate writes; a failure mid-way leaves the prior
// writes committed and names the failing step in the error details.
func (s *service) Confirm(ctx context.Context, userID uuid.UUID, input ConfirmInput) (*Receipt, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.Method))
	}
	if input.Zip == "" || input.Street == "" || input.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "incomplete address")
	}

	lines, err := s.preconditions(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := cart.BuildView(lines)
	total := chargeTotal(view, input.Method)

	order := &models.Order{
		UserID:          userID,
		Total:           total,
		Status:          statusForMethod(input.Method),
		PaymentMethod:   input.Method,
		DeliveryAddress: fmt.Sprintf("CEP: %s | %s | %s", input.Zip, input.Street, input.City),
	}

	var boleto *BoletoPayload
	if input.Method == enums.PaymentMethodBankSlip {
		docDate := s.now().UTC()
		dueDate := addBusinessDays(docDate, s.cfg.BoletoDueBusinessDays)
		barcode := mockBarcode(total, dueDate)
		order.BoletoDueDate = &dueDate
		order.BoletoBarcode = &barcode
		boleto = &BoletoPayload{
			Barcode:      barcode,
			Amount:       total,
			DueDate:      dueDate,
			DocumentDate: docDate,
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order").
			WithDetails(map[string]any{"step": "order_insert"})
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.Product.ID,
			Quantity:    line.Quantity,
			PriceAtTime: line.Product.Price,
		})
	}
	if err := s.orders.CreateItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items").
			WithDetails(map[string]any{"step": "item_insert"})
	}

	for _, line := range lines {
		if _, err := s.settler.Apply(ctx, kardex.ApplyInput{
			ProductID: line.Product.ID,
			Delta:     -line.Quantity,
			Type:      enums.StockMovementSale,
			OrderID:   &order.ID,
			UserID:    &userID,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle stock").
				WithDetails(map[string]any{"step": "stock_settlement", "product_id": line.Product.ID})
		}
	}

	s.cart.Clear(userID)

	if boleto != nil {
		boleto.OrderID = order.ID
		profile, err := s.profiles.Get(ctx, userID)
		if err == nil {
			boleto.PayerName = profile.FullName
			boleto.PayerAddress = order.DeliveryAddress
		}
	}

	return &Receipt{Order: *order, Boleto: boleto}, nil
}

// preconditions enforces the checkout gate: a non-empty cart first, then a
// complete delivery profile.
func (s *service) preconditions(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	lines := s.cart.Snapshot(userID)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	complete, err := s.profiles.IsComplete(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complete your profile before checkout")
	}
	return lines, nil
}

func statusForMethod(method enums.PaymentMethod) enums.OrderStatus {
	switch method {
	case enums.PaymentMethodCreditCard:
		return enums.OrderStatusPaid
	case enums.PaymentMethodPix:
		return enums.OrderStatusShipped
	default:
		return enums.OrderStatusPending
	}
}
