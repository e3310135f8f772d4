package loans

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InterestPayment is the linking record for one loan installment. It ties
// together the loan, the expense created for the interest portion, and the
// payment settling that expense, so the whole installment can be reverted
// as a unit.
type InterestPayment struct {
	shared.BaseEntity
	LoanID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"loan_id"`
	ExpenseID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"expense_id"`
	PaymentID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"payment_id"`
	InterestAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"interest_amount"`
	PrincipalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"principal_amount"`
	PaidDate        time.Time       `gorm:"not null;index" json:"paid_date"`
}

// TableName returns the table name for GORM
func (InterestPayment) TableName() string {
	return "loan_interest_payments"
}

// NewInterestPayment creates the installment linking record
func NewInterestPayment(loanID, expenseID, paymentID uuid.UUID, interestAmount, principalAmount decimal.Decimal, paidDate time.Time) (*InterestPayment, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOAN", "Loan ID cannot be empty")
	}
	if expenseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPENSE", "Expense ID cannot be empty")
	}
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if interestAmount.IsNegative() || principalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Installment portions cannot be negative")
	}
	if interestAmount.IsZero() && principalAmount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Installment must carry an interest or principal portion")
	}
	if paidDate.IsZero() {
		paidDate = time.Now()
	}

	return &InterestPayment{
		BaseEntity:      shared.NewBaseEntity(),
		LoanID:          loanID,
		ExpenseID:       expenseID,
		PaymentID:       paymentID,
		InterestAmount:  interestAmount,
		PrincipalAmount: principalAmount,
		PaidDate:        paidDate,
	}, nil
}

// Total returns the full installment amount
func (p *InterestPayment) Total() decimal.Decimal {
	return p.InterestAmount.Add(p.PrincipalAmount)
}

// Relink points the record at replacement expense and payment rows and
// overwrites the portions, keeping the record's own identity. Used when an
// installment is edited and its linked rows are rebuilt.
func (p *InterestPayment) Relink(expenseID, paymentID uuid.UUID, interestAmount, principalAmount decimal.Decimal, paidDate time.Time) error {
	if expenseID == uuid.Nil {
		return shared.NewDomainError("INVALID_EXPENSE", "Expense ID cannot be empty")
	}
	if paymentID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if interestAmount.IsNegative() || principalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Installment portions cannot be negative")
	}
	if interestAmount.IsZero() && principalAmount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Installment must carry an interest or principal portion")
	}
	if paidDate.IsZero() {
		paidDate = time.Now()
	}

	p.ExpenseID = expenseID
	p.PaymentID = paymentID
	p.InterestAmount = interestAmount
	p.PrincipalAmount = principalAmount
	p.PaidDate = paidDate
	p.UpdatedAt = time.Now()
	return nil
}
