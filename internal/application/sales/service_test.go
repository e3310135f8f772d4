package sales_test

import (
	"context"
	"testing"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	appsales "github.com/bizledger/backend/internal/application/sales"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.LedgerFixture) *appsales.Service {
	return appsales.NewService(f.Scope, f.AuditSink, f.Cache, zap.NewNop())
}

func seedClient(t *testing.T, f *testutil.LedgerFixture) *party.Client {
	t.Helper()
	client, err := party.NewClient("Acme Traders")
	require.NoError(t, err)
	require.NoError(t, f.Clients.Save(context.Background(), client))
	return client
}

func TestService_CreateSale(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	client := seedClient(t, f)
	itemID := uuid.New()

	sale, err := svc.CreateSale(ctx, appsales.CreateSaleCommand{
		SaleNumber: "SALE-100",
		ClientID:   client.ID,
		SaleDate:   time.Now(),
		Items: []appsales.ItemInput{
			{ItemID: itemID, ItemName: "Widget", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)
	assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Acme Traders", sale.ClientName)

	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(1000)))

	// Four widgets left the shelf
	assert.True(t, f.Stock.Level(itemID).Equal(decimal.NewFromInt(-4)))

	assert.Len(t, f.AuditSink.Entries(), 1)
}

func TestService_CreateSaleWithInitialReceipt(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	client := seedClient(t, f)

	sale, err := svc.CreateSale(ctx, appsales.CreateSaleCommand{
		SaleNumber: "SALE-110",
		ClientID:   client.ID,
		SaleDate:   time.Now(),
		Items: []appsales.ItemInput{
			{ItemID: uuid.New(), ItemName: "Widget", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(250)},
		},
		InitialPayment: &appsales.InitialPayment{
			Amount:      decimal.NewFromInt(400),
			Method:      ledger.PaymentMethodUPI,
			PaymentDate: time.Now(),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, sale.PaymentStatus)
	assert.True(t, sale.TotalPaid.Equal(decimal.NewFromInt(400)))
	assert.True(t, sale.RemainingAmount.Equal(decimal.NewFromInt(600)))

	// The receivable carries only what is still open
	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(600)))

	assert.Equal(t, 1, f.Payments.Count())
}

func TestService_CreateSale_Validation(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	client := seedClient(t, f)

	t.Run("no items", func(t *testing.T) {
		_, err := svc.CreateSale(ctx, appsales.CreateSaleCommand{
			SaleNumber: "SALE-101",
			ClientID:   client.ID,
			SaleDate:   time.Now(),
		})
		assert.Error(t, err)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := svc.CreateSale(ctx, appsales.CreateSaleCommand{
			SaleNumber: "SALE-102",
			ClientID:   uuid.New(),
			SaleDate:   time.Now(),
			Items: []appsales.ItemInput{
				{ItemID: uuid.New(), ItemName: "Widget", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
			},
		})
		assert.Error(t, err)
	})
}

func TestService_DeleteSale_CascadesAndReleases(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	paySvc := appledger.NewPaymentService(f.Scope, f.AuditSink, f.Cache, zap.NewNop())
	client := seedClient(t, f)
	itemID := uuid.New()

	sale, err := svc.CreateSale(ctx, appsales.CreateSaleCommand{
		SaleNumber: "SALE-103",
		ClientID:   client.ID,
		SaleDate:   time.Now(),
		Items: []appsales.ItemInput{
			{ItemID: itemID, ItemName: "Widget", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)

	_, err = paySvc.CreatePayment(ctx, appledger.CreatePaymentCommand{
		Target:      ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID},
		Amount:      decimal.NewFromInt(400),
		Method:      ledger.PaymentMethodCash,
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSale(ctx, sale.ID))

	_, err = f.Sales.FindByID(ctx, sale.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, f.Payments.Count())

	// The paid 400 already left the balance; deleting drops the open 600
	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.IsZero())

	// Stock came back
	assert.True(t, f.Stock.Level(itemID).IsZero())
}

func TestService_UpdateSale(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	client := seedClient(t, f)

	sale, err := svc.CreateSale(ctx, appsales.CreateSaleCommand{
		SaleNumber: "SALE-105",
		ClientID:   client.ID,
		SaleDate:   time.Now(),
		Items: []appsales.ItemInput{
			{ItemID: uuid.New(), ItemName: "Widget", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	newDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	notes := "delivered late"
	updated, err := svc.UpdateSale(ctx, sale.ID, appsales.UpdateSaleCommand{
		SaleDate: &newDate,
		Notes:    &notes,
	})
	require.NoError(t, err)
	assert.True(t, updated.SaleDate.Equal(newDate))
	assert.Equal(t, "delivered late", updated.Notes)

	// The patch leaves the financial side alone
	assert.True(t, updated.GrandTotal.Equal(decimal.NewFromInt(100)))
	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(100)))

	t.Run("unknown sale", func(t *testing.T) {
		_, err := svc.UpdateSale(ctx, uuid.New(), appsales.UpdateSaleCommand{Notes: &notes})
		assert.Error(t, err)
	})
}

func TestService_AddAndRemoveItem(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)
	client := seedClient(t, f)
	firstItem := uuid.New()
	secondItem := uuid.New()

	sale, err := svc.CreateSale(ctx, appsales.CreateSaleCommand{
		SaleNumber: "SALE-104",
		ClientID:   client.ID,
		SaleDate:   time.Now(),
		Items: []appsales.ItemInput{
			{ItemID: firstItem, ItemName: "Widget", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	sale, err = svc.AddItem(ctx, sale.ID, appsales.ItemInput{
		ItemID: secondItem, ItemName: "Gadget", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(500)))

	c, err := f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(500)))

	sale, err = svc.RemoveItem(ctx, sale.ID, secondItem)
	require.NoError(t, err)
	assert.True(t, sale.GrandTotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, f.Stock.Level(secondItem).IsZero())

	c, err = f.Clients.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.NewFromInt(200)))
}
