package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockAdjuster is the port through which the ledger touches inventory.
// Recording a sale takes its line quantities out of stock and deleting the
// sale puts them back; procurement of goods is the mirror image.
type StockAdjuster interface {
	StockOut(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error
	StockIn(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error
}
