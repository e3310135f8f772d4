package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockAdjuster implements StockAdjuster on the stock_levels table.
// Both directions are SQL increments so concurrent movements never lose
// writes; a missing row is created on first movement. Quantities may go
// negative: the engine records movements, it does not ration stock.
type GormStockAdjuster struct {
	db *gorm.DB
}

// NewGormStockAdjuster creates a new GormStockAdjuster
func NewGormStockAdjuster(db *gorm.DB) *GormStockAdjuster {
	return &GormStockAdjuster{db: db}
}

// StockOut decreases the on-hand quantity of an item
func (a *GormStockAdjuster) StockOut(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	return a.adjust(ctx, itemID, quantity.Neg())
}

// StockIn increases the on-hand quantity of an item
func (a *GormStockAdjuster) StockIn(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	return a.adjust(ctx, itemID, quantity)
}

func (a *GormStockAdjuster) adjust(ctx context.Context, itemID uuid.UUID, delta decimal.Decimal) error {
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Stock adjustment item id cannot be empty")
	}

	level := inventory.StockLevel{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		Quantity:   delta,
	}

	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("stock_levels.quantity + ?", delta),
				"updated_at": time.Now(),
			}),
		}).
		Create(&level).Error
}

// Ensure GormStockAdjuster implements StockAdjuster
var _ inventory.StockAdjuster = (*GormStockAdjuster)(nil)
