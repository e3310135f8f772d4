package loans

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LoanStatus represents the status of a loan
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// IsValid checks if the status is valid
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusClosed
}

// Loan tracks borrowed money and the running totals updated by interest
// installments. OutstandingAmount is clamped so it never exceeds the
// original principal and never drops below zero.
type Loan struct {
	shared.BaseAggregateRoot
	LoanNumber         string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"loan_number"`
	LenderName         string          `gorm:"type:varchar(200);not null" json:"lender_name"`
	PrincipalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"principal_amount"`
	AnnualInterestRate decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"annual_interest_rate"`
	StartDate          time.Time       `gorm:"not null" json:"start_date"`
	TotalInterestPaid  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_interest_paid"`
	TotalPrincipalPaid decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_principal_paid"`
	OutstandingAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"outstanding_amount"`
	Status             LoanStatus      `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Notes              string          `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loans"
}

// NewLoan creates a new loan
func NewLoan(loanNumber, lenderName string, principal valueobject.Money, annualRate decimal.Decimal, startDate time.Time) (*Loan, error) {
	if loanNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOAN_NUMBER", "Loan number cannot be empty")
	}
	if lenderName == "" {
		return nil, shared.NewDomainError("INVALID_LENDER", "Lender name cannot be empty")
	}
	if !principal.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRINCIPAL", "Loan principal must be positive")
	}
	if annualRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}

	return &Loan{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		LoanNumber:         loanNumber,
		LenderName:         lenderName,
		PrincipalAmount:    principal.Amount(),
		AnnualInterestRate: annualRate,
		StartDate:          startDate,
		TotalInterestPaid:  decimal.Zero,
		TotalPrincipalPaid: decimal.Zero,
		OutstandingAmount:  principal.Amount(),
		Status:             LoanStatusActive,
	}, nil
}

// clampOutstanding keeps the outstanding amount within [0, principal]
func (l *Loan) clampOutstanding() {
	if l.OutstandingAmount.GreaterThan(l.PrincipalAmount) {
		l.OutstandingAmount = l.PrincipalAmount
	}
	if l.OutstandingAmount.IsNegative() {
		l.OutstandingAmount = decimal.Zero
	}
}

// ApplyInstallment records an interest installment's effect on the loan
// totals. Either portion may be zero, but not both.
func (l *Loan) ApplyInstallment(interestPortion, principalPortion decimal.Decimal) error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply an installment to a closed loan")
	}
	if interestPortion.IsNegative() || principalPortion.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Installment portions cannot be negative")
	}
	if interestPortion.IsZero() && principalPortion.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Installment must carry an interest or principal portion")
	}

	l.TotalInterestPaid = l.TotalInterestPaid.Add(interestPortion)
	l.TotalPrincipalPaid = l.TotalPrincipalPaid.Add(principalPortion)
	l.OutstandingAmount = l.OutstandingAmount.Sub(principalPortion)
	l.clampOutstanding()

	if l.OutstandingAmount.IsZero() {
		l.Status = LoanStatusClosed
	}

	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// ReverseInstallment reverts a previously applied installment's effect on
// the loan totals, restoring them exactly.
func (l *Loan) ReverseInstallment(interestPortion, principalPortion decimal.Decimal) error {
	if interestPortion.IsNegative() || principalPortion.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Installment portions cannot be negative")
	}

	l.TotalInterestPaid = l.TotalInterestPaid.Sub(interestPortion)
	if l.TotalInterestPaid.IsNegative() {
		l.TotalInterestPaid = decimal.Zero
	}
	l.TotalPrincipalPaid = l.TotalPrincipalPaid.Sub(principalPortion)
	if l.TotalPrincipalPaid.IsNegative() {
		l.TotalPrincipalPaid = decimal.Zero
	}
	l.OutstandingAmount = l.OutstandingAmount.Add(principalPortion)
	l.clampOutstanding()

	if l.OutstandingAmount.IsPositive() {
		l.Status = LoanStatusActive
	}

	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}
