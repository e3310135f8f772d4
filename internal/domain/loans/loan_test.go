package loans

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoan(t *testing.T, principal float64) *Loan {
	t.Helper()
	loan, err := NewLoan("LN-001", "State Bank", valueobject.NewMoneyINRFromFloat(principal),
		decimal.NewFromFloat(9.5), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return loan
}

func TestNewLoan(t *testing.T) {
	t.Run("valid loan", func(t *testing.T) {
		loan := newTestLoan(t, 100000)
		assert.Equal(t, LoanStatusActive, loan.Status)
		assert.True(t, loan.OutstandingAmount.Equal(decimal.NewFromInt(100000)))
		assert.True(t, loan.TotalInterestPaid.IsZero())
		assert.True(t, loan.TotalPrincipalPaid.IsZero())
	})

	t.Run("zero principal", func(t *testing.T) {
		_, err := NewLoan("LN-002", "State Bank", valueobject.ZeroINR(), decimal.NewFromFloat(9.5), time.Now())
		assert.Error(t, err)
	})

	t.Run("negative rate", func(t *testing.T) {
		_, err := NewLoan("LN-003", "State Bank", valueobject.NewMoneyINRFromFloat(1000), decimal.NewFromFloat(-1), time.Now())
		assert.Error(t, err)
	})
}

func TestLoan_ApplyInstallment(t *testing.T) {
	loan := newTestLoan(t, 100000)

	require.NoError(t, loan.ApplyInstallment(decimal.NewFromInt(800), decimal.NewFromInt(10000)))
	assert.True(t, loan.TotalInterestPaid.Equal(decimal.NewFromInt(800)))
	assert.True(t, loan.TotalPrincipalPaid.Equal(decimal.NewFromInt(10000)))
	assert.True(t, loan.OutstandingAmount.Equal(decimal.NewFromInt(90000)))
	assert.Equal(t, LoanStatusActive, loan.Status)

	t.Run("interest only installment leaves outstanding alone", func(t *testing.T) {
		require.NoError(t, loan.ApplyInstallment(decimal.NewFromInt(750), decimal.Zero))
		assert.True(t, loan.OutstandingAmount.Equal(decimal.NewFromInt(90000)))
	})

	t.Run("empty installment rejected", func(t *testing.T) {
		assert.Error(t, loan.ApplyInstallment(decimal.Zero, decimal.Zero))
	})

	t.Run("negative portion rejected", func(t *testing.T) {
		assert.Error(t, loan.ApplyInstallment(decimal.NewFromInt(-1), decimal.Zero))
	})
}

func TestLoan_ClosesWhenOutstandingReachesZero(t *testing.T) {
	loan := newTestLoan(t, 50000)

	require.NoError(t, loan.ApplyInstallment(decimal.NewFromInt(400), decimal.NewFromInt(50000)))
	assert.Equal(t, LoanStatusClosed, loan.Status)
	assert.True(t, loan.OutstandingAmount.IsZero())

	assert.Error(t, loan.ApplyInstallment(decimal.NewFromInt(100), decimal.Zero))
}

func TestLoan_OutstandingClamped(t *testing.T) {
	loan := newTestLoan(t, 50000)

	// Over-large principal portion still lands at exactly zero
	require.NoError(t, loan.ApplyInstallment(decimal.Zero, decimal.NewFromInt(60000)))
	assert.True(t, loan.OutstandingAmount.IsZero())

	// Reversing cannot push outstanding above the original principal
	require.NoError(t, loan.ReverseInstallment(decimal.Zero, decimal.NewFromInt(60000)))
	assert.True(t, loan.OutstandingAmount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, LoanStatusActive, loan.Status)
}

func TestLoan_ReverseInstallment(t *testing.T) {
	loan := newTestLoan(t, 100000)
	require.NoError(t, loan.ApplyInstallment(decimal.NewFromInt(800), decimal.NewFromInt(10000)))

	require.NoError(t, loan.ReverseInstallment(decimal.NewFromInt(800), decimal.NewFromInt(10000)))
	assert.True(t, loan.TotalInterestPaid.IsZero())
	assert.True(t, loan.TotalPrincipalPaid.IsZero())
	assert.True(t, loan.OutstandingAmount.Equal(decimal.NewFromInt(100000)))
}

func TestNewInterestPayment(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		p, err := NewInterestPayment(uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(800), decimal.NewFromInt(200), time.Now())
		require.NoError(t, err)
		assert.True(t, p.Total().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("missing loan", func(t *testing.T) {
		_, err := NewInterestPayment(uuid.Nil, uuid.New(), uuid.New(), decimal.NewFromInt(800), decimal.Zero, time.Now())
		assert.Error(t, err)
	})

	t.Run("both portions zero", func(t *testing.T) {
		_, err := NewInterestPayment(uuid.New(), uuid.New(), uuid.New(), decimal.Zero, decimal.Zero, time.Now())
		assert.Error(t, err)
	})
}
