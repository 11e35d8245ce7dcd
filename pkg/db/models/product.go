package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Description  *string          `gorm:"column:description"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CreditPrice  decimal.Decimal  `gorm:"column:credit_price;type:numeric(12,2);not null"`
	CostPrice    *decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2)"`
	Stock        int              `gorm:"column:stock;not null;default:0"`
	Department   *string          `gorm:"column:department"`
	Gender       *string          `gorm:"column:gender"`
	Tag          *string          `gorm:"column:tag"`
	Installments int              `gorm:"column:installments;not null;default:1"`
	CardBrands   pq.StringArray   `gorm:"column:card_brands;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURLs    pq.StringArray   `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// MainImageURL returns the first image URL or empty string.
func (p Product) MainImageURL() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// EffectiveCreditPrice falls back to the cash price when no credit price is set.
func (p Product) EffectiveCreditPrice() decimal.Decimal {
	if p.CreditPrice.IsZero() {
		return p.Price
	}
	return p.CreditPrice
}
