package expense

import (
	"context"
	"errors"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages standalone expenses. An expense attached to a vendor
// contributes its amount to that vendor's outstanding payable; loan
// installment expenses are owned by the loan service and cannot be deleted
// here.
type Service struct {
	scope  appledger.TransactionScope
	audit  appledger.AuditSink
	cache  appledger.CacheInvalidator
	logger *zap.Logger
}

// NewService creates a new expense Service
func NewService(scope appledger.TransactionScope, audit appledger.AuditSink, cache appledger.CacheInvalidator, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		audit:  audit,
		cache:  cache,
		logger: logger,
	}
}

// InitialPayment is an optional payment recorded together with the expense
type InitialPayment struct {
	Amount      decimal.Decimal
	Method      ledger.PaymentMethod
	PaymentDate time.Time
	Reference   string
}

// CreateExpenseCommand carries the inputs for recording an expense
type CreateExpenseCommand struct {
	Description    string
	Category       expense.Category
	Amount         decimal.Decimal
	ExpenseDate    time.Time
	VendorID       *uuid.UUID
	Notes          string
	InitialPayment *InitialPayment
}

// CreateExpense records an expense. A named vendor's outstanding payable
// rises by the expense amount in the same transaction.
func (s *Service) CreateExpense(ctx context.Context, cmd CreateExpenseCommand) (*expense.Expense, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "create_expense")
	defer span.End()

	var exp *expense.Expense
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		exp, err = expense.NewExpense(cmd.Description, cmd.Category, valueobject.NewMoneyINR(cmd.Amount), cmd.ExpenseDate)
		if err != nil {
			return err
		}
		if cmd.Notes != "" {
			exp.Notes = cmd.Notes
		}

		if cmd.VendorID != nil && *cmd.VendorID != uuid.Nil {
			vendor, err := repos.VendorRepo().FindByID(ctx, *cmd.VendorID)
			if err != nil {
				return err
			}
			exp.VendorID = &vendor.ID
			if err := repos.VendorRepo().AdjustOutstanding(ctx, vendor.ID, exp.Amount); err != nil {
				return err
			}
		}

		if err := repos.ExpenseRepo().Save(ctx, exp); err != nil {
			return err
		}

		if cmd.InitialPayment != nil {
			_, err := appledger.RecordPaymentInScope(ctx, repos, appledger.CreatePaymentCommand{
				Target:          ledger.TargetRef{Kind: ledger.TargetKindExpense, ID: exp.ID},
				Amount:          cmd.InitialPayment.Amount,
				Method:          cmd.InitialPayment.Method,
				PaymentDate:     cmd.InitialPayment.PaymentDate,
				ReferenceNumber: cmd.InitialPayment.Reference,
			})
			if err != nil {
				return err
			}
			exp, err = repos.ExpenseRepo().FindByID(ctx, exp.ID)
			return err
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionCreate, exp, nil, exp)
	return exp, nil
}

// DeleteExpense removes an expense together with its payments. A vendor
// expense takes its remaining amount off the vendor's payable balance.
// Expenses created by a loan installment must go through the loan service.
func (s *Service) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "delete_expense")
	defer span.End()

	var before *expense.Expense
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exp, err := repos.ExpenseRepo().FindByID(ctx, expenseID)
		if err != nil {
			return err
		}
		before = exp

		if _, err := repos.InterestPaymentRepo().FindByExpense(ctx, expenseID); err == nil {
			return shared.NewDomainError("INSTALLMENT_EXPENSE", "Expense belongs to a loan installment and must be removed through the loan")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		target := ledger.TargetRef{Kind: ledger.TargetKindExpense, ID: exp.ID}
		payments, err := repos.PaymentRepo().FindByTarget(ctx, target)
		if err != nil {
			return err
		}
		for _, payment := range payments {
			if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
				return err
			}
		}

		if exp.VendorID != nil && *exp.VendorID != uuid.Nil {
			if err := repos.VendorRepo().AdjustOutstanding(ctx, *exp.VendorID, exp.RemainingAmount.Neg()); err != nil {
				return err
			}
		}
		return repos.ExpenseRepo().Delete(ctx, exp.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.afterCommit(ctx, ledger.AuditActionDelete, before, before, nil)
	return nil
}

// GetExpense loads a single expense
func (s *Service) GetExpense(ctx context.Context, expenseID uuid.UUID) (*expense.Expense, error) {
	var exp *expense.Expense
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		exp, err = repos.ExpenseRepo().FindByID(ctx, expenseID)
		return err
	})
	return exp, err
}

// ListExpenses returns expenses matching the filter
func (s *Service) ListExpenses(ctx context.Context, filter shared.Filter) ([]expense.Expense, error) {
	var result []expense.Expense
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.ExpenseRepo().FindAll(ctx, filter)
		return err
	})
	return result, err
}

func (s *Service) afterCommit(ctx context.Context, action ledger.AuditAction, exp *expense.Expense, oldValue, newValue interface{}) {
	entry, err := ledger.NewAuditEntry(action, "expense", exp.ID, oldValue, newValue)
	if err != nil {
		s.logger.Warn("failed to build audit entry",
			zap.String("expense_id", exp.ID.String()),
			zap.Error(err))
	} else {
		s.audit.Record(ctx, entry)
	}

	target := ledger.TargetRef{Kind: ledger.TargetKindExpense, ID: exp.ID}
	keys := []string{"target:" + target.String()}
	if exp.VendorID != nil && *exp.VendorID != uuid.Nil {
		party := ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: *exp.VendorID}
		keys = append(keys, "party:"+party.String())
	}
	s.cache.Invalidate(ctx, keys...)
}
