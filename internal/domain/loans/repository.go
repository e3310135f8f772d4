package loans

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LoanRepository persists loans
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Loan, error)
	Save(ctx context.Context, loan *Loan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InterestPaymentRepository persists installment linking records
type InterestPaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InterestPayment, error)
	FindByLoan(ctx context.Context, loanID uuid.UUID) ([]InterestPayment, error)
	FindByPayment(ctx context.Context, paymentID uuid.UUID) (*InterestPayment, error)
	FindByExpense(ctx context.Context, expenseID uuid.UUID) (*InterestPayment, error)
	Save(ctx context.Context, payment *InterestPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
