package enums

import "fmt"

// StockMovementType classifies an entry in the stock ledger.
type StockMovementType string

const (
	StockMovementSale         StockMovementType = "sale"
	StockMovementCancellation StockMovementType = "cancellation"
	StockMovementReactivation StockMovementType = "reactivation"
	StockMovementRestock      StockMovementType = "restock"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementSale,
	StockMovementCancellation,
	StockMovementReactivation,
	StockMovementRestock,
}

// String implements fmt.Stringer.
func (s StockMovementType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockMovementType.
func (s StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts raw input into a StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
