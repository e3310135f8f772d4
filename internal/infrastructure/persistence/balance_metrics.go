package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/party"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBalanceMetricsProvider reads aggregate balances for metric collection
type GormBalanceMetricsProvider struct {
	db *gorm.DB
}

// NewGormBalanceMetricsProvider creates a new GormBalanceMetricsProvider
func NewGormBalanceMetricsProvider(db *gorm.DB) *GormBalanceMetricsProvider {
	return &GormBalanceMetricsProvider{db: db}
}

// TotalOutstandingReceivable returns the sum of all client receivables
func (p *GormBalanceMetricsProvider) TotalOutstandingReceivable(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := p.db.WithContext(ctx).
		Model(&party.Client{}).
		Select("COALESCE(SUM(outstanding_receivable), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// TotalOutstandingPayable returns the sum of all vendor payables
func (p *GormBalanceMetricsProvider) TotalOutstandingPayable(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := p.db.WithContext(ctx).
		Model(&party.Vendor{}).
		Select("COALESCE(SUM(outstanding_payable), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
