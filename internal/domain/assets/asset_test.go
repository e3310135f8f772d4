package assets

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAsset(t *testing.T, price float64) *Asset {
	t.Helper()
	asset, err := NewAsset("CNC Lathe", CategoryMachinery, valueobject.NewMoneyINRFromFloat(price), time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return asset
}

func TestNewAsset(t *testing.T) {
	t.Run("valid asset", func(t *testing.T) {
		asset := newTestAsset(t, 10000)
		assert.Equal(t, CategoryMachinery, asset.Category)
		assert.True(t, asset.RemainingAmount.Equal(decimal.NewFromInt(10000)))
		assert.Equal(t, ledger.PaymentStatusUnpaid, asset.PaymentStatus)
		assert.False(t, asset.HasVendor())
	})

	t.Run("zero price", func(t *testing.T) {
		_, err := NewAsset("CNC Lathe", CategoryMachinery, valueobject.ZeroINR(), time.Now())
		assert.Error(t, err)
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := NewAsset("CNC Lathe", Category("software"), valueobject.NewMoneyINRFromFloat(100), time.Now())
		assert.Error(t, err)
	})
}

func TestAsset_VendorAttachment(t *testing.T) {
	asset := newTestAsset(t, 10000)
	vendorID := uuid.New()

	require.NoError(t, asset.AttachVendor(vendorID, "Machine Tools Ltd"))
	assert.True(t, asset.HasVendor())
	assert.Equal(t, vendorID, *asset.VendorID)

	asset.DetachVendor()
	assert.False(t, asset.HasVendor())
	assert.Empty(t, asset.VendorName)

	assert.Error(t, asset.AttachVendor(uuid.Nil, "Machine Tools Ltd"))
}

func TestAsset_PartialThenFullPayment(t *testing.T) {
	asset := newTestAsset(t, 10000)

	require.NoError(t, asset.RecordPayment(decimal.NewFromInt(4000)))
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, asset.PaymentStatus)
	assert.True(t, asset.RemainingAmount.Equal(decimal.NewFromInt(6000)))

	require.NoError(t, asset.RecordPayment(decimal.NewFromInt(6000)))
	assert.Equal(t, ledger.PaymentStatusFullyPaid, asset.PaymentStatus)
	assert.True(t, asset.RemainingAmount.IsZero())

	assert.Error(t, asset.RecordPayment(decimal.NewFromInt(1)))
}

func TestAsset_LinkPayment(t *testing.T) {
	asset := newTestAsset(t, 5000)
	paymentID := uuid.New()

	asset.LinkPayment(paymentID)
	require.NotNil(t, asset.PaymentID)
	assert.Equal(t, paymentID, *asset.PaymentID)

	asset.LinkPayment(uuid.Nil)
	assert.Nil(t, asset.PaymentID)
}

func TestAsset_RevertPayment(t *testing.T) {
	asset := newTestAsset(t, 5000)
	require.NoError(t, asset.RecordPayment(decimal.NewFromInt(5000)))

	asset.RevertPayment(decimal.NewFromInt(5000))
	assert.Equal(t, ledger.PaymentStatusUnpaid, asset.PaymentStatus)
	assert.True(t, asset.RemainingAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, asset.TotalPaid.IsZero())
}
