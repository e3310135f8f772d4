package assets_test

import (
	"context"
	"testing"
	"time"

	appassets "github.com/bizledger/backend/internal/application/assets"
	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.LedgerFixture) *appassets.Service {
	return appassets.NewService(f.Scope, f.AuditSink, f.Cache, zap.NewNop())
}

func seedVendor(t *testing.T, f *testutil.LedgerFixture, name string) *party.Vendor {
	t.Helper()
	vendor, err := party.NewVendor(name, party.VendorCategoryEquipment)
	require.NoError(t, err)
	require.NoError(t, f.Vendors.Save(context.Background(), vendor))
	return vendor
}

func TestService_CreateAsset_Vendorless(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	asset, err := svc.CreateAsset(ctx, appassets.CreateAssetCommand{
		Name:          "Office Laptop",
		Category:      assets.CategoryElectronics,
		PurchasePrice: decimal.NewFromInt(60000),
		PurchaseDate:  time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, asset.HasVendor())
	assert.Equal(t, ledger.PaymentStatusUnpaid, asset.PaymentStatus)
}

func TestService_CreateAsset_WithVendorAndAdvance(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f, "Machinery Mart")

	asset, err := svc.CreateAsset(ctx, appassets.CreateAssetCommand{
		Name:          "Lathe Machine",
		Category:      assets.CategoryMachinery,
		PurchasePrice: decimal.NewFromInt(10000),
		PurchaseDate:  time.Now(),
		VendorID:      &vendor.ID,
		InitialPayment: &appassets.InitialPayment{
			Amount:      decimal.NewFromInt(4000),
			Method:      ledger.PaymentMethodBankTransfer,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)
	assert.True(t, asset.HasVendor())
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, asset.PaymentStatus)
	assert.True(t, asset.RemainingAmount.Equal(decimal.NewFromInt(6000)))
	assert.NotNil(t, asset.PaymentID)

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.Equal(decimal.NewFromInt(6000)))
}

func TestService_ReassignVendor(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	oldVendor := seedVendor(t, f, "Machinery Mart")
	newVendor := seedVendor(t, f, "Tooling Traders")

	asset, err := svc.CreateAsset(ctx, appassets.CreateAssetCommand{
		Name:          "Lathe Machine",
		Category:      assets.CategoryMachinery,
		PurchasePrice: decimal.NewFromInt(10000),
		PurchaseDate:  time.Now(),
		VendorID:      &oldVendor.ID,
		InitialPayment: &appassets.InitialPayment{
			Amount:      decimal.NewFromInt(4000),
			Method:      ledger.PaymentMethodCash,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)

	asset, err = svc.ReassignVendor(ctx, asset.ID, &newVendor.ID)
	require.NoError(t, err)
	require.NotNil(t, asset.VendorID)
	assert.Equal(t, newVendor.ID, *asset.VendorID)
	assert.Equal(t, "Tooling Traders", asset.VendorName)

	// The open 6000 moved from one payable balance to the other
	old, err := f.Vendors.FindByID(ctx, oldVendor.ID)
	require.NoError(t, err)
	assert.True(t, old.OutstandingPayable.IsZero())

	fresh, err := f.Vendors.FindByID(ctx, newVendor.ID)
	require.NoError(t, err)
	assert.True(t, fresh.OutstandingPayable.Equal(decimal.NewFromInt(6000)))

	// History now reads against the new vendor
	payments, err := f.Payments.FindByTarget(ctx, ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, newVendor.ID, payments[0].PartyID)
}

func TestService_ReassignVendor_Detach(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f, "Machinery Mart")

	asset, err := svc.CreateAsset(ctx, appassets.CreateAssetCommand{
		Name:          "Compressor",
		Category:      assets.CategoryMachinery,
		PurchasePrice: decimal.NewFromInt(5000),
		PurchaseDate:  time.Now(),
		VendorID:      &vendor.ID,
	})
	require.NoError(t, err)

	asset, err = svc.ReassignVendor(ctx, asset.ID, nil)
	require.NoError(t, err)
	assert.False(t, asset.HasVendor())

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.IsZero())
}

func TestService_DeleteAsset(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f, "Machinery Mart")

	asset, err := svc.CreateAsset(ctx, appassets.CreateAssetCommand{
		Name:          "Lathe Machine",
		Category:      assets.CategoryMachinery,
		PurchasePrice: decimal.NewFromInt(10000),
		PurchaseDate:  time.Now(),
		VendorID:      &vendor.ID,
		InitialPayment: &appassets.InitialPayment{
			Amount:      decimal.NewFromInt(4000),
			Method:      ledger.PaymentMethodCash,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAsset(ctx, asset.ID))

	_, err = f.Assets.FindByID(ctx, asset.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, f.Payments.Count())

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.IsZero())
}
