package persistence

import (
	"context"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/domain/procurement"
	"github.com/bizledger/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every payment mutation and composite flow runs through here so that the
// payment row, the target's derived fields, the party balance and any stock
// movement commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) PaymentRepo() ledger.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditRepo() ledger.AuditRepository {
	return NewGormAuditRepository(r.tx)
}

func (r *gormTransactionalRepositories) ClientRepo() party.ClientRepository {
	return NewGormClientRepository(r.tx)
}

func (r *gormTransactionalRepositories) VendorRepo() party.VendorRepository {
	return NewGormVendorRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProcurementRepo() procurement.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) AssetRepo() assets.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

func (r *gormTransactionalRepositories) ExpenseRepo() expense.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

func (r *gormTransactionalRepositories) LoanRepo() loans.LoanRepository {
	return NewGormLoanRepository(r.tx)
}

func (r *gormTransactionalRepositories) InterestPaymentRepo() loans.InterestPaymentRepository {
	return NewGormInterestPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockAdjuster() inventory.StockAdjuster {
	return NewGormStockAdjuster(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
