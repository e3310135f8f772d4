package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/inventory"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/domain/procurement"
	"github.com/bizledger/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations will be part of the same database transaction and will be
// committed or rolled back atomically. Every payment mutation runs inside a
// single scope: the payment row, the target's derived fields and the party
// balance either all commit or none do.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	PaymentRepo() ledger.PaymentRepository
	AuditRepo() ledger.AuditRepository
	ClientRepo() party.ClientRepository
	VendorRepo() party.VendorRepository
	SaleRepo() sales.SaleRepository
	ProcurementRepo() procurement.OrderRepository
	AssetRepo() assets.AssetRepository
	ExpenseRepo() expense.ExpenseRepository
	LoanRepo() loans.LoanRepository
	InterestPaymentRepo() loans.InterestPaymentRepository
	// StockAdjuster moves inventory quantities inside the same transaction
	// as the ledger mutation that caused them.
	StockAdjuster() inventory.StockAdjuster
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory or mock repositories.
type NoOpTransactionScope struct {
	Payments         ledger.PaymentRepository
	Audits           ledger.AuditRepository
	Clients          party.ClientRepository
	Vendors          party.VendorRepository
	Sales            sales.SaleRepository
	Procurements     procurement.OrderRepository
	Assets           assets.AssetRepository
	Expenses         expense.ExpenseRepository
	Loans            loans.LoanRepository
	InterestPayments loans.InterestPaymentRepository
	Stock            inventory.StockAdjuster
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) PaymentRepo() ledger.PaymentRepository        { return s.Payments }
func (s *NoOpTransactionScope) AuditRepo() ledger.AuditRepository            { return s.Audits }
func (s *NoOpTransactionScope) ClientRepo() party.ClientRepository           { return s.Clients }
func (s *NoOpTransactionScope) VendorRepo() party.VendorRepository           { return s.Vendors }
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository               { return s.Sales }
func (s *NoOpTransactionScope) ProcurementRepo() procurement.OrderRepository { return s.Procurements }
func (s *NoOpTransactionScope) AssetRepo() assets.AssetRepository            { return s.Assets }
func (s *NoOpTransactionScope) ExpenseRepo() expense.ExpenseRepository       { return s.Expenses }
func (s *NoOpTransactionScope) LoanRepo() loans.LoanRepository               { return s.Loans }
func (s *NoOpTransactionScope) InterestPaymentRepo() loans.InterestPaymentRepository {
	return s.InterestPayments
}
func (s *NoOpTransactionScope) StockAdjuster() inventory.StockAdjuster { return s.Stock }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
