package expense_test

import (
	"context"
	"testing"
	"time"

	appexpense "github.com/bizledger/backend/internal/application/expense"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.LedgerFixture) *appexpense.Service {
	return appexpense.NewService(f.Scope, f.AuditSink, f.Cache, zap.NewNop())
}

func seedVendor(t *testing.T, f *testutil.LedgerFixture) *party.Vendor {
	t.Helper()
	vendor, err := party.NewVendor("Facility Services", party.VendorCategoryServices)
	require.NoError(t, err)
	require.NoError(t, f.Vendors.Save(context.Background(), vendor))
	return vendor
}

func TestService_CreateExpense(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	exp, err := svc.CreateExpense(ctx, appexpense.CreateExpenseCommand{
		Description: "Office rent for August",
		Category:    expense.CategoryRent,
		Amount:      decimal.NewFromInt(15000),
		ExpenseDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusUnpaid, exp.PaymentStatus)
	assert.Nil(t, exp.VendorID)
	assert.Len(t, f.AuditSink.Entries(), 1)
}

func TestService_CreateExpense_WithVendorAndPayment(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f)

	exp, err := svc.CreateExpense(ctx, appexpense.CreateExpenseCommand{
		Description: "Generator maintenance",
		Category:    expense.CategoryMaintenance,
		Amount:      decimal.NewFromInt(3000),
		ExpenseDate: time.Now(),
		VendorID:    &vendor.ID,
		InitialPayment: &appexpense.InitialPayment{
			Amount:      decimal.NewFromInt(1000),
			Method:      ledger.PaymentMethodUPI,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, exp.PaymentStatus)
	assert.True(t, exp.RemainingAmount.Equal(decimal.NewFromInt(2000)))

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.Equal(decimal.NewFromInt(2000)))
}

func TestService_DeleteExpense(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f)

	exp, err := svc.CreateExpense(ctx, appexpense.CreateExpenseCommand{
		Description: "Generator maintenance",
		Category:    expense.CategoryMaintenance,
		Amount:      decimal.NewFromInt(3000),
		ExpenseDate: time.Now(),
		VendorID:    &vendor.ID,
		InitialPayment: &appexpense.InitialPayment{
			Amount:      decimal.NewFromInt(1000),
			Method:      ledger.PaymentMethodCash,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(ctx, exp.ID))

	_, err = f.Expenses.FindByID(ctx, exp.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, f.Payments.Count())

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.IsZero())
}

func TestService_DeleteExpense_InstallmentBlocked(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	exp, err := svc.CreateExpense(ctx, appexpense.CreateExpenseCommand{
		Description: "Loan installment LOAN-1 (State Bank)",
		Category:    expense.CategoryLoanInterest,
		Amount:      decimal.NewFromInt(10800),
		ExpenseDate: time.Now(),
	})
	require.NoError(t, err)

	link, err := loans.NewInterestPayment(uuid.New(), exp.ID, uuid.New(),
		decimal.NewFromInt(800), decimal.NewFromInt(10000), time.Now())
	require.NoError(t, err)
	require.NoError(t, f.InterestPayments.Save(ctx, link))

	err = svc.DeleteExpense(ctx, exp.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan")

	_, err = f.Expenses.FindByID(ctx, exp.ID)
	assert.NoError(t, err)
}
