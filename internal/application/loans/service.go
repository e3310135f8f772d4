package loans

import (
	"context"
	"fmt"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages loans and their installments. One installment creates
// three records in a single transaction: an expense for the cash going out,
// a payment settling that expense, and a linking record that ties both to
// the loan so the whole installment can be reversed as a unit.
type Service struct {
	scope  appledger.TransactionScope
	audit  appledger.AuditSink
	logger *zap.Logger
}

// NewService creates a new loans Service
func NewService(scope appledger.TransactionScope, audit appledger.AuditSink, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		audit:  audit,
		logger: logger,
	}
}

// CreateLoanCommand carries the inputs for registering a loan
type CreateLoanCommand struct {
	LoanNumber         string
	LenderName         string
	PrincipalAmount    decimal.Decimal
	AnnualInterestRate decimal.Decimal
	StartDate          time.Time
	Notes              string
}

// InstallmentCommand carries the inputs for one loan installment
type InstallmentCommand struct {
	LoanID           uuid.UUID
	InterestPortion  decimal.Decimal
	PrincipalPortion decimal.Decimal
	Method           ledger.PaymentMethod
	PaidDate         time.Time
	Reference        string
}

// CreateLoan registers a new loan
func (s *Service) CreateLoan(ctx context.Context, cmd CreateLoanCommand) (*loans.Loan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "loans", "create_loan")
	defer span.End()

	var loan *loans.Loan
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		loan, err = loans.NewLoan(cmd.LoanNumber, cmd.LenderName,
			valueobject.NewMoneyINR(cmd.PrincipalAmount), cmd.AnnualInterestRate, cmd.StartDate)
		if err != nil {
			return err
		}
		if cmd.Notes != "" {
			loan.Notes = cmd.Notes
		}
		return repos.LoanRepo().Save(ctx, loan)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.recordAudit(ctx, ledger.AuditActionCreate, "loan", loan.ID, nil, loan)
	return loan, nil
}

// RecordInstallment records one installment against a loan. The loan totals
// move first, then an expense is created for the full installment amount, a
// payment settles it and the linking record ties the three together. All of
// it commits atomically or not at all.
func (s *Service) RecordInstallment(ctx context.Context, cmd InstallmentCommand) (*loans.InterestPayment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "loans", "record_installment")
	defer span.End()

	var installment *loans.InterestPayment
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		loan, err := repos.LoanRepo().FindByID(ctx, cmd.LoanID)
		if err != nil {
			return err
		}
		if err := loan.ApplyInstallment(cmd.InterestPortion, cmd.PrincipalPortion); err != nil {
			return err
		}

		total := cmd.InterestPortion.Add(cmd.PrincipalPortion)
		exp, err := expense.NewExpense(
			fmt.Sprintf("Loan installment %s (%s)", loan.LoanNumber, loan.LenderName),
			expense.CategoryLoanInterest,
			valueobject.NewMoneyINR(total),
			cmd.PaidDate,
		)
		if err != nil {
			return err
		}
		if err := repos.ExpenseRepo().Save(ctx, exp); err != nil {
			return err
		}

		payment, err := appledger.RecordPaymentInScope(ctx, repos, appledger.CreatePaymentCommand{
			Target:          ledger.TargetRef{Kind: ledger.TargetKindExpense, ID: exp.ID},
			Amount:          total,
			Method:          cmd.Method,
			PaymentDate:     cmd.PaidDate,
			ReferenceNumber: cmd.Reference,
		})
		if err != nil {
			return err
		}

		installment, err = loans.NewInterestPayment(loan.ID, exp.ID, payment.ID,
			cmd.InterestPortion, cmd.PrincipalPortion, cmd.PaidDate)
		if err != nil {
			return err
		}
		if err := repos.InterestPaymentRepo().Save(ctx, installment); err != nil {
			return err
		}
		return repos.LoanRepo().Save(ctx, loan)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.recordAudit(ctx, ledger.AuditActionCreate, "loan_installment", installment.ID, nil, installment)
	return installment, nil
}

// UpdateInstallmentCommand carries the changed fields for an installment.
// Nil fields keep their current values.
type UpdateInstallmentCommand struct {
	InterestPortion  *decimal.Decimal
	PrincipalPortion *decimal.Decimal
	Method           *ledger.PaymentMethod
	PaidDate         *time.Time
	Reference        *string
}

// UpdateInstallment edits an installment by reversing it and applying the
// new portions in the same transaction: the loan totals move back, the old
// expense and payment rows are replaced by fresh ones carrying the new
// amounts, and the linking record is repointed at them. The record keeps
// its identity so installment history stays addressable.
func (s *Service) UpdateInstallment(ctx context.Context, installmentID uuid.UUID, cmd UpdateInstallmentCommand) (*loans.InterestPayment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "loans", "update_installment")
	defer span.End()

	var installment *loans.InterestPayment
	var before *loans.InterestPayment
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		installment, err = repos.InterestPaymentRepo().FindByID(ctx, installmentID)
		if err != nil {
			return err
		}
		snapshot := *installment
		before = &snapshot

		loan, err := repos.LoanRepo().FindByID(ctx, installment.LoanID)
		if err != nil {
			return err
		}
		oldPayment, err := repos.PaymentRepo().FindByID(ctx, installment.PaymentID)
		if err != nil {
			return err
		}

		interest := installment.InterestAmount
		principal := installment.PrincipalAmount
		method := oldPayment.Method
		paidDate := installment.PaidDate
		reference := oldPayment.ReferenceNumber
		if cmd.InterestPortion != nil {
			interest = *cmd.InterestPortion
		}
		if cmd.PrincipalPortion != nil {
			principal = *cmd.PrincipalPortion
		}
		if cmd.Method != nil {
			method = *cmd.Method
		}
		if cmd.PaidDate != nil {
			paidDate = *cmd.PaidDate
		}
		if cmd.Reference != nil {
			reference = *cmd.Reference
		}

		// Reverse the old installment in full
		if err := loan.ReverseInstallment(installment.InterestAmount, installment.PrincipalAmount); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Delete(ctx, installment.PaymentID); err != nil {
			return err
		}
		if err := repos.ExpenseRepo().Delete(ctx, installment.ExpenseID); err != nil {
			return err
		}

		// Apply the new one as on record
		if err := loan.ApplyInstallment(interest, principal); err != nil {
			return err
		}
		total := interest.Add(principal)
		exp, err := expense.NewExpense(
			fmt.Sprintf("Loan installment %s (%s)", loan.LoanNumber, loan.LenderName),
			expense.CategoryLoanInterest,
			valueobject.NewMoneyINR(total),
			paidDate,
		)
		if err != nil {
			return err
		}
		if err := repos.ExpenseRepo().Save(ctx, exp); err != nil {
			return err
		}
		payment, err := appledger.RecordPaymentInScope(ctx, repos, appledger.CreatePaymentCommand{
			Target:          ledger.TargetRef{Kind: ledger.TargetKindExpense, ID: exp.ID},
			Amount:          total,
			Method:          method,
			PaymentDate:     paidDate,
			ReferenceNumber: reference,
		})
		if err != nil {
			return err
		}

		if err := installment.Relink(exp.ID, payment.ID, interest, principal, paidDate); err != nil {
			return err
		}
		if err := repos.InterestPaymentRepo().Save(ctx, installment); err != nil {
			return err
		}
		return repos.LoanRepo().Save(ctx, loan)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.recordAudit(ctx, ledger.AuditActionUpdate, "loan_installment", installment.ID, before, installment)
	return installment, nil
}

// DeleteInstallment reverses one installment as a unit: the loan totals are
// restored, and the expense, its payment and the linking record all go away
// in the same transaction.
func (s *Service) DeleteInstallment(ctx context.Context, installmentID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "loans", "delete_installment")
	defer span.End()

	var before *loans.InterestPayment
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		installment, err := repos.InterestPaymentRepo().FindByID(ctx, installmentID)
		if err != nil {
			return err
		}
		before = installment

		loan, err := repos.LoanRepo().FindByID(ctx, installment.LoanID)
		if err != nil {
			return err
		}
		if err := loan.ReverseInstallment(installment.InterestAmount, installment.PrincipalAmount); err != nil {
			return err
		}

		if err := repos.PaymentRepo().Delete(ctx, installment.PaymentID); err != nil {
			return err
		}
		if err := repos.ExpenseRepo().Delete(ctx, installment.ExpenseID); err != nil {
			return err
		}
		if err := repos.InterestPaymentRepo().Delete(ctx, installment.ID); err != nil {
			return err
		}
		return repos.LoanRepo().Save(ctx, loan)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.recordAudit(ctx, ledger.AuditActionDelete, "loan_installment", before.ID, before, nil)
	return nil
}

// GetLoan loads a single loan
func (s *Service) GetLoan(ctx context.Context, loanID uuid.UUID) (*loans.Loan, error) {
	var loan *loans.Loan
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		loan, err = repos.LoanRepo().FindByID(ctx, loanID)
		return err
	})
	return loan, err
}

// ListLoans returns loans matching the filter
func (s *Service) ListLoans(ctx context.Context, filter shared.Filter) ([]loans.Loan, error) {
	var result []loans.Loan
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.LoanRepo().FindAll(ctx, filter)
		return err
	})
	return result, err
}

// ListInstallments returns a loan's installment history
func (s *Service) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]loans.InterestPayment, error) {
	var result []loans.InterestPayment
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.InterestPaymentRepo().FindByLoan(ctx, loanID)
		return err
	})
	return result, err
}

func (s *Service) recordAudit(ctx context.Context, action ledger.AuditAction, entityType string, entityID uuid.UUID, oldValue, newValue interface{}) {
	entry, err := ledger.NewAuditEntry(action, entityType, entityID, oldValue, newValue)
	if err != nil {
		s.logger.Warn("failed to build audit entry",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
		return
	}
	s.audit.Record(ctx, entry)
}
