package loans_test

import (
	"context"
	"testing"
	"time"

	apploans "github.com/bizledger/backend/internal/application/loans"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.LedgerFixture) *apploans.Service {
	return apploans.NewService(f.Scope, f.AuditSink, zap.NewNop())
}

func seedLoan(t *testing.T, f *testutil.LedgerFixture, svc *apploans.Service) *loans.Loan {
	t.Helper()
	loan, err := svc.CreateLoan(context.Background(), apploans.CreateLoanCommand{
		LoanNumber:         "LOAN-100",
		LenderName:         "State Bank",
		PrincipalAmount:    decimal.NewFromInt(100000),
		AnnualInterestRate: decimal.NewFromFloat(9.5),
		StartDate:          time.Now(),
	})
	require.NoError(t, err)
	return loan
}

func TestService_CreateLoan(t *testing.T) {
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	loan := seedLoan(t, f, svc)
	assert.Equal(t, loans.LoanStatusActive, loan.Status)
	assert.True(t, loan.OutstandingAmount.Equal(decimal.NewFromInt(100000)))
	assert.Len(t, f.AuditSink.Entries(), 1)
}

func TestService_RecordInstallment(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	loan := seedLoan(t, f, svc)

	installment, err := svc.RecordInstallment(ctx, apploans.InstallmentCommand{
		LoanID:           loan.ID,
		InterestPortion:  decimal.NewFromInt(800),
		PrincipalPortion: decimal.NewFromInt(10000),
		Method:           ledger.PaymentMethodBankTransfer,
		PaidDate:         time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, installment.Total().Equal(decimal.NewFromInt(10800)))

	// Loan totals moved
	got, err := f.Loans.FindByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalInterestPaid.Equal(decimal.NewFromInt(800)))
	assert.True(t, got.TotalPrincipalPaid.Equal(decimal.NewFromInt(10000)))
	assert.True(t, got.OutstandingAmount.Equal(decimal.NewFromInt(90000)))
	assert.Equal(t, loans.LoanStatusActive, got.Status)

	// The expense went out fully settled
	exp, err := f.Expenses.FindByID(ctx, installment.ExpenseID)
	require.NoError(t, err)
	assert.Equal(t, expense.CategoryLoanInterest, exp.Category)
	assert.True(t, exp.Amount.Equal(decimal.NewFromInt(10800)))
	assert.Equal(t, ledger.PaymentStatusFullyPaid, exp.PaymentStatus)

	// One payment settles that expense
	payment, err := f.Payments.FindByID(ctx, installment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, ledger.TargetKindExpense, payment.TargetKind)
	assert.Equal(t, installment.ExpenseID, payment.TargetID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(10800)))
}

func TestService_RecordInstallment_ClosesLoan(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	loan := seedLoan(t, f, svc)

	_, err := svc.RecordInstallment(ctx, apploans.InstallmentCommand{
		LoanID:           loan.ID,
		InterestPortion:  decimal.NewFromInt(500),
		PrincipalPortion: decimal.NewFromInt(100000),
		Method:           ledger.PaymentMethodCash,
		PaidDate:         time.Now(),
	})
	require.NoError(t, err)

	got, err := f.Loans.FindByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loans.LoanStatusClosed, got.Status)
	assert.True(t, got.OutstandingAmount.IsZero())

	// A closed loan takes no further installments
	_, err = svc.RecordInstallment(ctx, apploans.InstallmentCommand{
		LoanID:           loan.ID,
		InterestPortion:  decimal.NewFromInt(100),
		PrincipalPortion: decimal.Zero,
		Method:           ledger.PaymentMethodCash,
		PaidDate:         time.Now(),
	})
	assert.Error(t, err)
}

func TestService_DeleteInstallment(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	loan := seedLoan(t, f, svc)

	installment, err := svc.RecordInstallment(ctx, apploans.InstallmentCommand{
		LoanID:           loan.ID,
		InterestPortion:  decimal.NewFromInt(800),
		PrincipalPortion: decimal.NewFromInt(10000),
		Method:           ledger.PaymentMethodBankTransfer,
		PaidDate:         time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInstallment(ctx, installment.ID))

	// The whole triple is gone
	_, err = f.InterestPayments.FindByID(ctx, installment.ID)
	assert.Error(t, err)
	_, err = f.Expenses.FindByID(ctx, installment.ExpenseID)
	assert.Error(t, err)
	assert.Equal(t, 0, f.Payments.Count())

	// Loan totals restored
	got, err := f.Loans.FindByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalInterestPaid.IsZero())
	assert.True(t, got.TotalPrincipalPaid.IsZero())
	assert.True(t, got.OutstandingAmount.Equal(decimal.NewFromInt(100000)))
}

func TestService_UpdateInstallment(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	loan := seedLoan(t, f, svc)

	installment, err := svc.RecordInstallment(ctx, apploans.InstallmentCommand{
		LoanID:           loan.ID,
		InterestPortion:  decimal.NewFromInt(800),
		PrincipalPortion: decimal.NewFromInt(10000),
		Method:           ledger.PaymentMethodBankTransfer,
		PaidDate:         time.Now(),
	})
	require.NoError(t, err)
	oldExpenseID := installment.ExpenseID

	newInterest := decimal.NewFromInt(600)
	newPrincipal := decimal.NewFromInt(15000)
	updated, err := svc.UpdateInstallment(ctx, installment.ID, apploans.UpdateInstallmentCommand{
		InterestPortion:  &newInterest,
		PrincipalPortion: &newPrincipal,
	})
	require.NoError(t, err)
	assert.Equal(t, installment.ID, updated.ID)
	assert.True(t, updated.Total().Equal(decimal.NewFromInt(15600)))

	// Loan totals carry only the new portions
	got, err := f.Loans.FindByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalInterestPaid.Equal(newInterest))
	assert.True(t, got.TotalPrincipalPaid.Equal(newPrincipal))
	assert.True(t, got.OutstandingAmount.Equal(decimal.NewFromInt(85000)))

	// The old expense/payment pair was replaced by a fresh settled one
	_, err = f.Expenses.FindByID(ctx, oldExpenseID)
	assert.Error(t, err)
	exp, err := f.Expenses.FindByID(ctx, updated.ExpenseID)
	require.NoError(t, err)
	assert.True(t, exp.Amount.Equal(decimal.NewFromInt(15600)))
	assert.Equal(t, ledger.PaymentStatusFullyPaid, exp.PaymentStatus)
	assert.Equal(t, 1, f.Payments.Count())
	payment, err := f.Payments.FindByID(ctx, updated.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentMethodBankTransfer, payment.Method)

	t.Run("zeroing both portions rejected", func(t *testing.T) {
		zero := decimal.Zero
		_, err := svc.UpdateInstallment(ctx, installment.ID, apploans.UpdateInstallmentCommand{
			InterestPortion:  &zero,
			PrincipalPortion: &zero,
		})
		assert.Error(t, err)
	})
}

func TestService_ListInstallments(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	loan := seedLoan(t, f, svc)

	for i := 0; i < 3; i++ {
		_, err := svc.RecordInstallment(ctx, apploans.InstallmentCommand{
			LoanID:           loan.ID,
			InterestPortion:  decimal.NewFromInt(800),
			PrincipalPortion: decimal.NewFromInt(5000),
			Method:           ledger.PaymentMethodCash,
			PaidDate:         time.Now(),
		})
		require.NoError(t, err)
	}

	history, err := svc.ListInstallments(ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
