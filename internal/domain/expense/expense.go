package expense

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies an expense
type Category string

const (
	CategoryRent         Category = "rent"
	CategoryUtilities    Category = "utilities"
	CategorySalaries     Category = "salaries"
	CategoryLoanInterest Category = "loan_interest"
	CategoryMaintenance  Category = "maintenance"
	CategoryOther        Category = "other"
)

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryRent, CategoryUtilities, CategorySalaries,
		CategoryLoanInterest, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

// Expense is a generic payable target. Loan interest installments create one
// expense per installment with the loan_interest category.
type Expense struct {
	shared.BaseAggregateRoot
	Description string          `gorm:"type:varchar(500);not null" json:"description"`
	Category    Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	ExpenseDate time.Time       `gorm:"not null;index" json:"expense_date"`
	VendorID    *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	ledger.PaymentTracking `gorm:"embedded"`
	Notes string `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense record
func NewExpense(description string, category Category, amount valueobject.Money, expenseDate time.Time) (*Expense, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Expense description cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       description,
		Category:          category,
		Amount:            amount.Amount(),
		ExpenseDate:       expenseDate,
		PaymentTracking:   ledger.NewPaymentTracking(amount.Amount()),
	}, nil
}

// Principal returns the fixed amount owed on the expense
func (e *Expense) Principal() decimal.Decimal {
	return e.Amount
}

// RecordPayment applies an additional paid amount to the expense's derived
// fields. Rejects overpayment before mutating anything.
func (e *Expense) RecordPayment(amount decimal.Decimal) error {
	if err := ledger.CanAcceptPayment(e.Amount, e.TotalPaid, amount); err != nil {
		return err
	}
	e.AddPaid(e.Amount, amount)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// RevertPayment removes a previously applied paid amount, re-deriving status
func (e *Expense) RevertPayment(amount decimal.Decimal) {
	e.RemovePaid(e.Amount, amount)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Expense, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]Expense, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}
