package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

// StockMovement is one append-only Kardex ledger entry. Quantity is signed;
// CurrentStock must always equal PreviousStock + Quantity.
type StockMovement struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID               `gorm:"column:product_id;type:uuid;not null;index"`
	Quantity      int                     `gorm:"column:quantity;not null"`
	Type          enums.StockMovementType `gorm:"column:type;type:text;not null"`
	PreviousStock int                     `gorm:"column:previous_stock;not null"`
	CurrentStock  int                     `gorm:"column:current_stock;not null"`
	OrderID       *uuid.UUID              `gorm:"column:order_id;type:uuid;index"`
	UserID        *uuid.UUID              `gorm:"column:user_id;type:uuid"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
}
