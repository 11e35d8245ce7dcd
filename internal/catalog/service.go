package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/kardex"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// Service defines catalog operations for the storefront and the admin panel.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Restock(ctx context.Context, id uuid.UUID, input RestockInput, actorID uuid.UUID) (*models.Product, error)
}

type service struct {
	repo    Repository
	settler *kardex.Settler
}

// NewService wires the catalog service with its repository and the stock settler.
func NewService(repo Repository, settler *kardex.Settler) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if settler == nil {
		return nil, fmt.Errorf("stock settler required")
	}
	return &service{repo: repo, settler: settler}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	installments := input.Installments
	if installments < 1 {
		installments = 1
	}

	creditPrice := input.Price
	if input.CreditPrice != nil {
		creditPrice = *input.CreditPrice
	}

	product := &models.Product{
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		CreditPrice:  creditPrice,
		CostPrice:    input.CostPrice,
		Stock:        input.Stock,
		Department:   input.Department,
		Gender:       input.Gender,
		Tag:          input.Tag,
		Installments: installments,
		CardBrands:   pq.StringArray(input.CardBrands),
		ImageURLs:    pq.StringArray(input.ImageURLs),
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.CreditPrice != nil {
		product.CreditPrice = *input.CreditPrice
	}
	if input.CostPrice != nil {
		product.CostPrice = input.CostPrice
	}
	if input.Department != nil {
		product.Department = input.Department
	}
	if input.Gender != nil {
		product.Gender = input.Gender
	}
	if input.Tag != nil {
		product.Tag = input.Tag
	}
	if input.Installments != nil {
		if *input.Installments < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "installments must be at least 1")
		}
		product.Installments = *input.Installments
	}
	if input.CardBrands != nil {
		product.CardBrands = pq.StringArray(input.CardBrands)
	}
	if input.ImageURLs != nil {
		product.ImageURLs = pq.StringArray(input.ImageURLs)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) Restock(ctx context.Context, id uuid.UUID, input RestockInput, actorID uuid.UUID) (*models.Product, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be positive")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CostPrice != nil {
		product.CostPrice = input.CostPrice
		if err := s.repo.Update(ctx, product); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cost price")
		}
	}

	var userID *uuid.UUID
	if actorID != uuid.Nil {
		userID = &actorID
	}

	if _, err := s.settler.Apply(ctx, kardex.ApplyInput{
		ProductID: id,
		Delta:     input.Quantity,
		Type:      enums.StockMovementRestock,
		UserID:    userID,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle restock")
	}

	return s.Get(ctx, id)
}
