package checkout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// boletoEpoch anchors the due-date factor used in the barcode tail.
var boletoEpoch = time.Date(1997, time.October, 7, 0, 0, 0, 0, time.UTC)

// BoletoPayload is everything the print view needs to render the slip.
type BoletoPayload struct {
	OrderID      uuid.UUID       `json:"order_id"`
	Barcode      string          `json:"barcode"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	DocumentDate time.Time       `json:"document_date"`
	PayerName    string          `json:"payer_name"`
	PayerAddress string          `json:"payer_address"`
}

// mockBarcode renders a boleto-shaped digit line. No bank is involved; the
// tail still encodes the due-date factor and the amount in cents so slips
// for different orders differ.
func mockBarcode(amount decimal.Decimal, dueDate time.Time) string {
	factor := int(dueDate.Sub(boletoEpoch).Hours() / 24)
	cents := amount.Shift(2).IntPart()
	return fmt.Sprintf("34191.79001 01043.510047 91020.150008 5 %04d%010d", factor%10000, cents)
}
