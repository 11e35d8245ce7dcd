package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/users"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// Profile is the identity row without credentials.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Phone    *string   `json:"phone,omitempty"`
	Address  *string   `json:"address,omitempty"`
	Zipcode  *string   `json:"zipcode,omitempty"`
	City     *string   `json:"city,omitempty"`
	Complete bool      `json:"complete"`
}

// UpdateInput carries partial profile updates; nil fields are left untouched.
type UpdateInput struct {
	FullName *string
	Phone    *string
	Address  *string
	Zipcode  *string
	City     *string
}

// Service defines profile reads and writes.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	IsComplete(ctx context.Context, userID uuid.UUID) (bool, error)
}

type service struct {
	repo users.Repository
}

// NewService wires the profile service over the user repository.
func NewService(repo users.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := toProfile(*user)
	return &profile, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (*Profile, error) {
	user, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
		}
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.Zipcode != nil {
		user.Zipcode = input.Zipcode
	}
	if input.City != nil {
		user.City = input.City
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	profile := toProfile(*user)
	return &profile, nil
}

func (s *service) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list profiles")
	}
	profiles := make([]Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, toProfile(row))
	}
	return profiles, nil
}

func (s *service) IsComplete(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.fetch(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.ProfileComplete(), nil
}

func (s *service) fetch(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch profile")
	}
	return user, nil
}

func toProfile(user models.User) Profile {
	return Profile{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role.String(),
		Phone:    user.Phone,
		Address:  user.Address,
		Zipcode:  user.Zipcode,
		City:     user.City,
		Complete: user.ProfileComplete(),
	}
}
