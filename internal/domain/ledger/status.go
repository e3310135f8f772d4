package ledger

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	errInvalidAmount    = shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	errNoPrincipal      = shared.NewDomainError("INVALID_PRINCIPAL", "Target has no principal to pay against")
	errExceedsPrincipal = shared.NewDomainError("EXCEEDS_PRINCIPAL", "Cumulative paid amount would exceed the principal")
)

// PaymentStatus represents how much of a target's principal has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusFullyPaid     PaymentStatus = "fully_paid"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartiallyPaid, PaymentStatusFullyPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// StatusResult is the output of the status calculator
type StatusResult struct {
	TotalPaid       decimal.Decimal `json:"total_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
}

// CalculateStatus derives the payment status and remaining amount from a
// target's principal and the total paid against it. Negative inputs are
// clamped to zero. When the target is fully paid the remaining amount is
// exactly zero regardless of any overpayment beyond the principal.
//
// The function is pure and idempotent; it is the only place derived
// payment fields may be computed.
func CalculateStatus(principal, totalPaid decimal.Decimal) StatusResult {
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if totalPaid.IsNegative() {
		totalPaid = decimal.Zero
	}

	switch {
	case totalPaid.IsZero():
		return StatusResult{
			TotalPaid:       totalPaid,
			RemainingAmount: principal,
			PaymentStatus:   PaymentStatusUnpaid,
		}
	case totalPaid.GreaterThanOrEqual(principal):
		return StatusResult{
			TotalPaid:       totalPaid,
			RemainingAmount: decimal.Zero,
			PaymentStatus:   PaymentStatusFullyPaid,
		}
	default:
		return StatusResult{
			TotalPaid:       totalPaid,
			RemainingAmount: principal.Sub(totalPaid),
			PaymentStatus:   PaymentStatusPartiallyPaid,
		}
	}
}

// CanAcceptPayment reports whether an additional amount can be recorded
// against a target. Overpayment is rejected uniformly: the cumulative total
// paid may never exceed the principal, and a target with no principal
// accepts no payments at all.
func CanAcceptPayment(principal, totalPaid, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errInvalidAmount
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return errNoPrincipal
	}
	if totalPaid.Add(amount).GreaterThan(principal) {
		return errExceedsPrincipal
	}
	return nil
}

// PaymentTracking carries the denormalized payment aggregates stored on every
// payable target (sale, asset, procurement order, loan installment). The
// fields are only ever written through the status calculator.
type PaymentTracking struct {
	TotalPaid       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_paid"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"remaining_amount"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
}

// NewPaymentTracking returns tracking fields for a target with no payments yet
func NewPaymentTracking(principal decimal.Decimal) PaymentTracking {
	result := CalculateStatus(principal, decimal.Zero)
	return PaymentTracking{
		TotalPaid:       result.TotalPaid,
		RemainingAmount: result.RemainingAmount,
		PaymentStatus:   result.PaymentStatus,
	}
}

// Refresh re-derives remaining amount and status from the current total paid
func (p *PaymentTracking) Refresh(principal decimal.Decimal) {
	result := CalculateStatus(principal, p.TotalPaid)
	p.TotalPaid = result.TotalPaid
	p.RemainingAmount = result.RemainingAmount
	p.PaymentStatus = result.PaymentStatus
}

// AddPaid records an additional paid amount and refreshes derived fields
func (p *PaymentTracking) AddPaid(principal, amount decimal.Decimal) {
	p.TotalPaid = p.TotalPaid.Add(amount)
	p.Refresh(principal)
}

// RemovePaid reverts a previously recorded paid amount and refreshes derived
// fields. Total paid never drops below zero.
func (p *PaymentTracking) RemovePaid(principal, amount decimal.Decimal) {
	p.TotalPaid = p.TotalPaid.Sub(amount)
	if p.TotalPaid.IsNegative() {
		p.TotalPaid = decimal.Zero
	}
	p.Refresh(principal)
}

// SetPaid overwrites total paid with a recomputed ground-truth value and
// refreshes derived fields. Used by the recalculation path.
func (p *PaymentTracking) SetPaid(principal, totalPaid decimal.Decimal) {
	p.TotalPaid = totalPaid
	p.Refresh(principal)
}

// Result returns the tracking fields as a StatusResult
func (p *PaymentTracking) Result() StatusResult {
	return StatusResult{
		TotalPaid:       p.TotalPaid,
		RemainingAmount: p.RemainingAmount,
		PaymentStatus:   p.PaymentStatus,
	}
}
