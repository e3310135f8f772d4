package ledger_test

import (
	"context"
	"testing"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/expense"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRecalcService(f *testutil.LedgerFixture) *appledger.RecalcService {
	return appledger.NewRecalcService(f.Scope, f.AuditSink, zap.NewNop())
}

// seedPayment stores a raw payment row without touching any derived state,
// simulating drift between ground truth and the denormalized fields.
func seedPayment(t *testing.T, f *testutil.LedgerFixture, target ledger.TargetRef, amount float64) *ledger.Payment {
	t.Helper()
	payment, err := ledger.NewPayment(target, ledger.PartyRef{},
		valueobject.NewMoneyINRFromFloat(amount),
		ledger.PaymentMethodCash, ledger.TransactionTypeSale, ledger.AccountTypeReceivable,
		time.Now(), "")
	require.NoError(t, err)
	require.NoError(t, f.Payments.Save(context.Background(), payment))
	return payment
}

func TestRecalcService_RepairsDriftedTarget(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newRecalcService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)
	target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}

	// Ground truth says 400 was paid, the sale still says nothing was
	seedPayment(t, f, target, 400)

	result, err := svc.RecalculateTarget(ctx, target)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, ledger.PaymentStatusUnpaid, result.Before.PaymentStatus)
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, result.After.PaymentStatus)
	assert.True(t, result.After.TotalPaid.Equal(decimal.NewFromInt(400)))

	got, err := f.Sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, got.RemainingAmount.Equal(decimal.NewFromInt(600)))

	// A second run finds nothing to repair
	result, err = svc.RecalculateTarget(ctx, target)
	require.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestRecalcService_TargetWithoutPayments(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newRecalcService(f)

	vendor := seedVendor(t, f)
	asset := seedVendorAsset(t, f, vendor, 5000)
	target := ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID}

	result, err := svc.RecalculateTarget(ctx, target)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, ledger.PaymentStatusUnpaid, result.After.PaymentStatus)
}

func TestRecalcService_RecalculateAll(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newRecalcService(f)

	client := seedClient(t, f)
	drifted := seedClientSale(t, f, client, 1000)
	seedPayment(t, f, ledger.TargetRef{Kind: ledger.TargetKindSale, ID: drifted.ID}, 250)

	vendor := seedVendor(t, f)
	seedVendorAsset(t, f, vendor, 5000)

	exp, err := expense.NewExpense("Office rent", expense.CategoryRent, valueobject.NewMoneyINRFromFloat(800), time.Now())
	require.NoError(t, err)
	require.NoError(t, f.Expenses.Save(ctx, exp))

	report, err := svc.RecalculateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Failed)
}

func TestRecalcService_RecalculateAll_KindFilter(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newRecalcService(f)

	client := seedClient(t, f)
	drifted := seedClientSale(t, f, client, 1000)
	seedPayment(t, f, ledger.TargetRef{Kind: ledger.TargetKindSale, ID: drifted.ID}, 250)

	vendor := seedVendor(t, f)
	seedVendorAsset(t, f, vendor, 5000)

	// Only sales are swept; the asset stays out of the report
	report, err := svc.RecalculateAll(ctx, ledger.TargetKindSale)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Updated)

	// An asset-only sweep right after finds nothing drifted
	report, err = svc.RecalculateAll(ctx, ledger.TargetKindAsset)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 0, report.Updated)

	_, err = svc.RecalculateAll(ctx, ledger.TargetKind("warehouse"))
	assert.Error(t, err)
}

func TestRecalcService_ClientOutstanding(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newRecalcService(f)

	client := seedClient(t, f)
	seedClientSale(t, f, client, 1000)

	// Drift the balance away from the sum of open remainders
	require.NoError(t, f.Clients.AdjustOutstanding(ctx, client.ID, decimal.NewFromInt(123)))

	total, err := svc.RecalculateClientOutstanding(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1000)))

	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(1000)))
}

func TestRecalcService_VendorOutstanding(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newRecalcService(f)

	vendor := seedVendor(t, f)
	seedVendorAsset(t, f, vendor, 5000)

	exp, err := expense.NewExpense("Generator service", expense.CategoryMaintenance,
		valueobject.NewMoneyINRFromFloat(700), time.Now())
	require.NoError(t, err)
	exp.VendorID = &vendor.ID
	require.NoError(t, f.Expenses.Save(ctx, exp))

	// Wreck the balance entirely
	require.NoError(t, f.Vendors.AdjustOutstanding(ctx, vendor.ID, decimal.NewFromInt(-9999)))

	total, err := svc.RecalculateVendorOutstanding(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(5700)))

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.Equal(decimal.NewFromInt(5700)))
}
