package party_test

import (
	"context"
	"testing"

	appparty "github.com/bizledger/backend/internal/application/party"
	"github.com/bizledger/backend/internal/domain/party"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.LedgerFixture) *appparty.Service {
	return appparty.NewService(f.Scope, f.AuditSink, zap.NewNop())
}

func TestService_CreateClient(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	client, err := svc.CreateClient(ctx, appparty.CreateClientCommand{
		Name:        "Acme Traders",
		ContactName: "R. Mehta",
		Phone:       "+91 98200 00000",
		Email:       "accounts@acmetraders.example",
		GSTNumber:   "27AAACA1234A1Z5",
	})
	require.NoError(t, err)
	assert.Equal(t, "R. Mehta", client.ContactName)
	assert.True(t, client.OutstandingReceivable.IsZero())
	assert.True(t, client.IsActive())

	got, err := svc.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", got.Name)
}

func TestService_CreateClient_RequiresName(t *testing.T) {
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	_, err := svc.CreateClient(context.Background(), appparty.CreateClientCommand{})
	assert.Error(t, err)
}

func TestService_CreateVendor(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	vendor, err := svc.CreateVendor(ctx, appparty.CreateVendorCommand{
		Name:     "Steel Supply Co",
		Category: party.VendorCategoryMaterials,
	})
	require.NoError(t, err)
	assert.Equal(t, party.VendorCategoryMaterials, vendor.Category)
	assert.True(t, vendor.OutstandingPayable.IsZero())

	list, err := svc.ListVendors(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewLedgerFixture()
	svc := newService(f)

	client, err := svc.CreateClient(ctx, appparty.CreateClientCommand{Name: "Acme Traders"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateClient(ctx, client.ID))

	got, err := svc.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive())
	assert.Len(t, f.AuditSink.Entries(), 2)
}
