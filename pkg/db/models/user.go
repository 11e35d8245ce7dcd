package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// User represents the canonical identity entity and its storefront profile.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FullName     string         `gorm:"column:full_name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:buyer"`
	Phone        *string        `gorm:"column:phone"`
	Address      *string        `gorm:"column:address"`
	Zipcode      *string        `gorm:"column:zipcode"`
	City         *string        `gorm:"column:city"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ProfileComplete reports whether the delivery-relevant fields are filled in.
func (u User) ProfileComplete() bool {
	return deref(u.Phone) != "" && deref(u.Address) != "" && deref(u.Zipcode) != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
