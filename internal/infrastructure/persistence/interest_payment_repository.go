package persistence

import (
	"context"
	"errors"

	"github.com/bizledger/backend/internal/domain/loans"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInterestPaymentRepository implements InterestPaymentRepository using GORM.
// An interest payment row is the link that binds a loan installment's expense
// and payment together; the deletion guards look rows up by either end.
type GormInterestPaymentRepository struct {
	db *gorm.DB
}

// NewGormInterestPaymentRepository creates a new GormInterestPaymentRepository
func NewGormInterestPaymentRepository(db *gorm.DB) *GormInterestPaymentRepository {
	return &GormInterestPaymentRepository{db: db}
}

// FindByID finds an interest payment by its ID
func (r *GormInterestPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*loans.InterestPayment, error) {
	var ip loans.InterestPayment
	if err := r.db.WithContext(ctx).First(&ip, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ip, nil
}

// FindByLoan finds all installments recorded against a loan, oldest first
func (r *GormInterestPaymentRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]loans.InterestPayment, error) {
	var installments []loans.InterestPayment
	if err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("paid_date ASC, created_at ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// FindByPayment finds the installment linked to a payment, if any
func (r *GormInterestPaymentRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) (*loans.InterestPayment, error) {
	var ip loans.InterestPayment
	if err := r.db.WithContext(ctx).First(&ip, "payment_id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ip, nil
}

// FindByExpense finds the installment linked to an expense, if any
func (r *GormInterestPaymentRepository) FindByExpense(ctx context.Context, expenseID uuid.UUID) (*loans.InterestPayment, error) {
	var ip loans.InterestPayment
	if err := r.db.WithContext(ctx).First(&ip, "expense_id = ?", expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ip, nil
}

// Save creates or updates an interest payment
func (r *GormInterestPaymentRepository) Save(ctx context.Context, payment *loans.InterestPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Delete deletes an interest payment
func (r *GormInterestPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&loans.InterestPayment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormInterestPaymentRepository implements InterestPaymentRepository
var _ loans.InterestPaymentRepository = (*GormInterestPaymentRepository)(nil)
