package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func TestCalculateStatus(t *testing.T) {
	tests := []struct {
		name          string
		principal     float64
		totalPaid     float64
		wantStatus    PaymentStatus
		wantRemaining float64
	}{
		{"nothing paid", 1000, 0, PaymentStatusUnpaid, 1000},
		{"partially paid", 1000, 400, PaymentStatusPartiallyPaid, 600},
		{"exactly paid", 1000, 1000, PaymentStatusFullyPaid, 0},
		{"overpaid clamps remaining to zero", 1000, 1200, PaymentStatusFullyPaid, 0},
		{"zero principal zero paid", 0, 0, PaymentStatusUnpaid, 0},
		{"zero principal with payment", 0, 50, PaymentStatusFullyPaid, 0},
		{"tiny remainder", 100, 99.99, PaymentStatusPartiallyPaid, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStatus(d(tt.principal), d(tt.totalPaid))
			assert.Equal(t, tt.wantStatus, got.PaymentStatus)
			assert.True(t, got.RemainingAmount.Equal(d(tt.wantRemaining)),
				"remaining = %s, want %v", got.RemainingAmount, tt.wantRemaining)
		})
	}
}

func TestCalculateStatus_ClampsNegativeInputs(t *testing.T) {
	got := CalculateStatus(d(-100), d(-5))
	assert.Equal(t, PaymentStatusUnpaid, got.PaymentStatus)
	assert.True(t, got.RemainingAmount.IsZero())
	assert.True(t, got.TotalPaid.IsZero())
}

func TestCalculateStatus_RemainingNeverNegative(t *testing.T) {
	// remaining >= 0 for any non-negative inputs, and remaining == 0
	// whenever status is fully_paid
	cases := [][2]float64{
		{0, 0}, {0, 1}, {1, 0}, {100, 50}, {100, 100}, {100, 101},
		{0.01, 0.02}, {99999.99, 0.01},
	}
	for _, c := range cases {
		got := CalculateStatus(d(c[0]), d(c[1]))
		assert.False(t, got.RemainingAmount.IsNegative(),
			"principal=%v paid=%v remaining=%s", c[0], c[1], got.RemainingAmount)
		if got.PaymentStatus == PaymentStatusFullyPaid {
			assert.True(t, got.RemainingAmount.IsZero())
		}
	}
}

func TestCalculateStatus_Idempotent(t *testing.T) {
	first := CalculateStatus(d(500), d(200))
	second := CalculateStatus(d(500), d(200))
	assert.Equal(t, first, second)
}

func TestPaymentTracking_AddRemoveRoundTrip(t *testing.T) {
	principal := d(10000)
	tracking := NewPaymentTracking(principal)
	assert.Equal(t, PaymentStatusUnpaid, tracking.PaymentStatus)

	tracking.AddPaid(principal, d(4000))
	assert.Equal(t, PaymentStatusPartiallyPaid, tracking.PaymentStatus)
	assert.True(t, tracking.RemainingAmount.Equal(d(6000)))

	tracking.AddPaid(principal, d(6000))
	assert.Equal(t, PaymentStatusFullyPaid, tracking.PaymentStatus)
	assert.True(t, tracking.RemainingAmount.IsZero())

	// reverting the second payment restores the partial state exactly
	tracking.RemovePaid(principal, d(6000))
	assert.Equal(t, PaymentStatusPartiallyPaid, tracking.PaymentStatus)
	assert.True(t, tracking.RemainingAmount.Equal(d(6000)))
	assert.True(t, tracking.TotalPaid.Equal(d(4000)))
}

func TestPaymentTracking_RemoveClampsAtZero(t *testing.T) {
	principal := d(100)
	tracking := NewPaymentTracking(principal)
	tracking.RemovePaid(principal, d(50))
	assert.True(t, tracking.TotalPaid.IsZero())
	assert.Equal(t, PaymentStatusUnpaid, tracking.PaymentStatus)
}

func TestPaymentTracking_SetPaid(t *testing.T) {
	principal := d(100)
	tracking := NewPaymentTracking(principal)
	tracking.AddPaid(principal, d(30))

	// recalculation overwrites the cached total with ground truth
	tracking.SetPaid(principal, d(70))
	assert.True(t, tracking.TotalPaid.Equal(d(70)))
	assert.True(t, tracking.RemainingAmount.Equal(d(30)))
	assert.Equal(t, PaymentStatusPartiallyPaid, tracking.PaymentStatus)
}
