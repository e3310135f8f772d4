package procurement_test

import (
	"context"
	"testing"
	"time"

	appproc "github.com/bizledger/backend/internal/application/procurement"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/domain/procurement"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.LedgerFixture) *appproc.Service {
	return appproc.NewService(f.Scope, f.AuditSink, f.Cache, zap.NewNop())
}

func seedVendor(t *testing.T, f *testutil.LedgerFixture) *party.Vendor {
	t.Helper()
	vendor, err := party.NewVendor("Steel Supply Co", party.VendorCategoryMaterials)
	require.NoError(t, err)
	require.NoError(t, f.Vendors.Save(context.Background(), vendor))
	return vendor
}

func TestService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f)
	itemID := uuid.New()

	order, err := svc.CreateOrder(ctx, appproc.CreateOrderCommand{
		OrderNumber: "PO-100",
		Type:        procurement.OrderTypeRawMaterial,
		VendorID:    vendor.ID,
		OrderDate:   time.Now(),
		Items: []appproc.ItemInput{
			{ItemID: itemID, ItemName: "Steel Rod", Quantity: decimal.NewFromInt(50), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	assert.True(t, order.GrandTotal.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, ledger.PaymentStatusUnpaid, order.PaymentStatus)

	// The payable rises by the full total even with nothing paid
	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.Equal(decimal.NewFromInt(5000)))

	// Fifty rods came into stock
	assert.True(t, f.Stock.Level(itemID).Equal(decimal.NewFromInt(50)))
}

func TestService_CreateOrderWithAdvance(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f)

	order, err := svc.CreateOrder(ctx, appproc.CreateOrderCommand{
		OrderNumber: "PO-101",
		Type:        procurement.OrderTypeFinishedGood,
		VendorID:    vendor.ID,
		OrderDate:   time.Now(),
		Items: []appproc.ItemInput{
			{ItemID: uuid.New(), ItemName: "Steel Sheet", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(400)},
		},
		InitialPayment: &appproc.InitialPayment{
			Amount:      decimal.NewFromInt(1500),
			Method:      ledger.PaymentMethodBankTransfer,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, order.PaymentStatus)
	assert.True(t, order.TotalPaid.Equal(decimal.NewFromInt(1500)))
	assert.True(t, order.RemainingAmount.Equal(decimal.NewFromInt(2500)))

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.Equal(decimal.NewFromInt(2500)))

	assert.Equal(t, 1, f.Payments.Count())
}

func TestService_ServiceOrderSkipsStock(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f)
	itemID := uuid.New()

	_, err := svc.CreateOrder(ctx, appproc.CreateOrderCommand{
		OrderNumber: "PO-102",
		Type:        procurement.OrderTypeService,
		VendorID:    vendor.ID,
		OrderDate:   time.Now(),
		Items: []appproc.ItemInput{
			{ItemID: itemID, ItemName: "Machine Overhaul", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(2000)},
		},
	})
	require.NoError(t, err)
	assert.True(t, f.Stock.Level(itemID).IsZero())
}

func TestService_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f)

	order, err := svc.CreateOrder(ctx, appproc.CreateOrderCommand{
		OrderNumber: "PO-104",
		Type:        procurement.OrderTypeRawMaterial,
		VendorID:    vendor.ID,
		OrderDate:   time.Now(),
		Items: []appproc.ItemInput{
			{ItemID: uuid.New(), ItemName: "Steel Rod", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	newDate := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	notes := "vendor confirmed revised delivery"
	updated, err := svc.UpdateOrder(ctx, order.ID, appproc.UpdateOrderCommand{
		OrderDate: &newDate,
		Notes:     &notes,
	})
	require.NoError(t, err)
	assert.True(t, updated.OrderDate.Equal(newDate))
	assert.Equal(t, "vendor confirmed revised delivery", updated.Notes)

	// The patch leaves the payable alone
	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.Equal(decimal.NewFromInt(1000)))

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateOrder(ctx, uuid.New(), appproc.UpdateOrderCommand{Notes: &notes})
		assert.Error(t, err)
	})
}

func TestService_DeleteOrder(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	vendor := seedVendor(t, f)
	itemID := uuid.New()

	order, err := svc.CreateOrder(ctx, appproc.CreateOrderCommand{
		OrderNumber: "PO-103",
		Type:        procurement.OrderTypeRawMaterial,
		VendorID:    vendor.ID,
		OrderDate:   time.Now(),
		Items: []appproc.ItemInput{
			{ItemID: itemID, ItemName: "Steel Rod", Quantity: decimal.NewFromInt(50), UnitPrice: decimal.NewFromInt(100)},
		},
		InitialPayment: &appproc.InitialPayment{
			Amount:      decimal.NewFromInt(2000),
			Method:      ledger.PaymentMethodCash,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err = f.Orders.FindByID(ctx, order.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, f.Payments.Count())

	v, err := f.Vendors.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.OutstandingPayable.IsZero())

	assert.True(t, f.Stock.Level(itemID).IsZero())
}
