package ledger_test

import (
	"context"
	"testing"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentService(f *testutil.LedgerFixture) *appledger.PaymentService {
	return appledger.NewPaymentService(f.Scope, f.AuditSink, f.Cache, zap.NewNop())
}

func seedVendor(t *testing.T, f *testutil.LedgerFixture) *party.Vendor {
	t.Helper()
	vendor, err := party.NewVendor("Machine Tools Ltd", party.VendorCategoryEquipment)
	require.NoError(t, err)
	require.NoError(t, f.Vendors.Save(context.Background(), vendor))
	return vendor
}

func seedClient(t *testing.T, f *testutil.LedgerFixture) *party.Client {
	t.Helper()
	client, err := party.NewClient("Acme Traders")
	require.NoError(t, err)
	require.NoError(t, f.Clients.Save(context.Background(), client))
	return client
}

// seedVendorAsset stores an asset bought from the vendor and bumps the
// vendor's payable the way the asset service does on create.
func seedVendorAsset(t *testing.T, f *testutil.LedgerFixture, vendor *party.Vendor, price float64) *assets.Asset {
	t.Helper()
	ctx := context.Background()
	asset, err := assets.NewAsset("CNC Lathe", assets.CategoryMachinery, valueobject.NewMoneyINRFromFloat(price), time.Now())
	require.NoError(t, err)
	require.NoError(t, asset.AttachVendor(vendor.ID, vendor.Name))
	require.NoError(t, f.Assets.Save(ctx, asset))
	require.NoError(t, f.Vendors.AdjustOutstanding(ctx, vendor.ID, asset.PurchasePrice))
	return asset
}

func seedClientSale(t *testing.T, f *testutil.LedgerFixture, client *party.Client, total float64) *sales.Sale {
	t.Helper()
	ctx := context.Background()
	sale, err := sales.NewSale("SALE-001", client.ID, client.Name, time.Now())
	require.NoError(t, err)
	_, err = sale.AddItem(uuid.New(), "Widget", decimal.NewFromInt(1), valueobject.NewMoneyINRFromFloat(total))
	require.NoError(t, err)
	require.NoError(t, f.Sales.Save(ctx, sale))
	require.NoError(t, f.Clients.AdjustOutstanding(ctx, client.ID, sale.GrandTotal))
	return sale
}

func TestPaymentService_AssetPartialThenFull(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	vendor := seedVendor(t, f)
	asset := seedVendorAsset(t, f, vendor, 10000)
	target := ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID}

	first, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(4000),
		Method:      ledger.PaymentMethodBankTransfer,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.TransactionTypePurchase, first.TransactionType)
	assert.Equal(t, ledger.AccountTypePayable, first.AccountType)

	got, err := f.Assets.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, got.PaymentStatus)
	assert.True(t, got.RemainingAmount.Equal(decimal.NewFromInt(6000)))
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, first.ID, *got.PaymentID)

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.Equal(decimal.NewFromInt(6000)))

	_, err = svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(6000),
		Method:      ledger.PaymentMethodCheque,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	got, err = f.Assets.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusFullyPaid, got.PaymentStatus)
	assert.True(t, got.RemainingAmount.IsZero())

	v, err = f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.IsZero())

	// Fully paid target rejects any further payment
	_, err = svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(1),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	assert.Error(t, err)
	assert.Equal(t, 2, f.Payments.Count())

	assert.Len(t, f.AuditSink.Entries(), 2)
	assert.NotEmpty(t, f.Cache.Keys())
}

func TestPaymentService_SalePaymentMovesReceivable(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)
	target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}

	payment, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(400),
		Method:      ledger.PaymentMethodUPI,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.PartyKindClient, payment.PartyKind)
	assert.Equal(t, client.ID, payment.PartyID)

	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(600)))

	got, err := f.Sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, got.PaymentStatus)
}

func TestPaymentService_PartyMismatchRejected(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)

	_, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID},
		Party:       ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: uuid.New()},
		Amount:      decimal.NewFromInt(100),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	assert.Error(t, err)
}

func TestPaymentService_UpdateAmountTwoPhase(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)
	target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}

	payment, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(400),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	newAmount := decimal.NewFromInt(700)
	updated, err := svc.UpdatePayment(ctx, payment.ID, appledger.UpdatePaymentCommand{Amount: &newAmount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(newAmount))

	got, err := f.Sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPaid.Equal(newAmount))
	assert.True(t, got.RemainingAmount.Equal(decimal.NewFromInt(300)))

	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(300)))
}

func TestPaymentService_UpdateRejectsOverpayment(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)
	target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}

	payment, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(400),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	_, err = svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(500),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	// 700 + the other 500 would exceed the 1000 principal
	tooMuch := decimal.NewFromInt(700)
	_, err = svc.UpdatePayment(ctx, payment.ID, appledger.UpdatePaymentCommand{Amount: &tooMuch})
	assert.Error(t, err)
}

func TestPaymentService_UpdateCannotDetachParty(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)
	target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}

	payment, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(400),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	// Restating the actual counterparty is a no-op patch and allowed
	restated := ledger.PartyRef{Kind: ledger.PartyKindClient, ID: client.ID}
	updated, err := svc.UpdatePayment(ctx, payment.ID, appledger.UpdatePaymentCommand{
		Party: &restated,
	})
	require.NoError(t, err)
	assert.Equal(t, client.ID, updated.PartyID)

	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(600)))

	// A zero party patch would strand the client balance at its pre-update
	// value while the sale's remaining amount moves on. The target's
	// counterparty is authoritative, so the patch is rejected.
	_, err = svc.UpdatePayment(ctx, payment.ID, appledger.UpdatePaymentCommand{
		Party: &ledger.PartyRef{},
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "PARTY_MISMATCH", derr.Code)

	// Replacing the counterparty outright is rejected the same way
	_, err = svc.UpdatePayment(ctx, payment.ID, appledger.UpdatePaymentCommand{
		Party: &ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: uuid.New()},
	})
	assert.Error(t, err)
}

func TestPaymentService_DeleteRestoresBalances(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)
	target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}

	payment, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      target,
		Amount:      decimal.NewFromInt(400),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePayment(ctx, payment.ID))

	got, err := f.Sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusUnpaid, got.PaymentStatus)
	assert.True(t, got.RemainingAmount.Equal(decimal.NewFromInt(1000)))

	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(1000)))

	_, err = f.Payments.FindByID(ctx, payment.ID)
	assert.Error(t, err)
}

func TestPaymentService_DeleteInstallmentPaymentBlocked(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	client := seedClient(t, f)
	sale := seedClientSale(t, f, client, 1000)

	payment, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID},
		Amount:      decimal.NewFromInt(400),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	link, err := loans.NewInterestPayment(uuid.New(), uuid.New(), payment.ID,
		decimal.NewFromInt(400), decimal.Zero, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.InterestPayments.Save(ctx, link))

	err = svc.DeletePayment(ctx, payment.ID)
	assert.Error(t, err)

	_, err = f.Payments.FindByID(ctx, payment.ID)
	assert.NoError(t, err)
}

func TestPaymentService_Tranches(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newPaymentService(f)

	vendor := seedVendor(t, f)
	asset := seedVendorAsset(t, f, vendor, 9000)
	target := ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID}

	one, three := 1, 3
	payment, err := svc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:        target,
		Amount:        decimal.NewFromInt(3000),
		Method:        ledger.PaymentMethodBankTransfer,
		PaymentDate:   time.Now(),
		TrancheNumber: &one,
		TotalTranches: &three,
	})
	require.NoError(t, err)
	require.NotNil(t, payment.TrancheNumber)
	assert.Equal(t, 1, *payment.TrancheNumber)
	assert.Equal(t, 3, *payment.TotalTranches)
}
