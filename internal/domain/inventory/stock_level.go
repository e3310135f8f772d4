package inventory

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevel is the running on-hand quantity of one item. It is written only
// through StockAdjuster inside the same transaction as the ledger mutation
// that moves the stock, so the quantity can never drift from the documents.
type StockLevel struct {
	shared.BaseEntity
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"item_id"`
	ItemName string          `gorm:"type:varchar(200)" json:"item_name"`
	Quantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a stock level row for an item
func NewStockLevel(itemID uuid.UUID, itemName string, quantity decimal.Decimal) (*StockLevel, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Stock level item id cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock level quantity cannot be negative")
	}
	return &StockLevel{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		ItemName:   itemName,
		Quantity:   quantity,
	}, nil
}
