package expense

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpense(t *testing.T) {
	t.Run("valid expense", func(t *testing.T) {
		e, err := NewExpense("Office rent April", CategoryRent, valueobject.NewMoneyINRFromFloat(25000), time.Now())
		require.NoError(t, err)
		assert.Equal(t, ledger.PaymentStatusUnpaid, e.PaymentStatus)
		assert.True(t, e.RemainingAmount.Equal(decimal.NewFromInt(25000)))
	})

	t.Run("empty description", func(t *testing.T) {
		_, err := NewExpense("", CategoryRent, valueobject.NewMoneyINRFromFloat(25000), time.Now())
		assert.Error(t, err)
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := NewExpense("Office rent", Category("travel"), valueobject.NewMoneyINRFromFloat(25000), time.Now())
		assert.Error(t, err)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := NewExpense("Office rent", CategoryRent, valueobject.ZeroINR(), time.Now())
		assert.Error(t, err)
	})
}

func TestExpense_Payments(t *testing.T) {
	e, err := NewExpense("Generator service", CategoryMaintenance, valueobject.NewMoneyINRFromFloat(8000), time.Now())
	require.NoError(t, err)

	require.NoError(t, e.RecordPayment(decimal.NewFromInt(3000)))
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, e.PaymentStatus)

	require.NoError(t, e.RecordPayment(decimal.NewFromInt(5000)))
	assert.Equal(t, ledger.PaymentStatusFullyPaid, e.PaymentStatus)
	assert.True(t, e.RemainingAmount.IsZero())

	assert.Error(t, e.RecordPayment(decimal.NewFromInt(1)))

	e.RevertPayment(decimal.NewFromInt(5000))
	assert.Equal(t, ledger.PaymentStatusPartiallyPaid, e.PaymentStatus)
	assert.True(t, e.RemainingAmount.Equal(decimal.NewFromInt(5000)))
}
