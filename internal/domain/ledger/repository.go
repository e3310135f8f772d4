package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository persists payment fact records
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByTarget(ctx context.Context, target TargetRef) ([]Payment, error)
	FindByParty(ctx context.Context, party PartyRef, filter shared.Filter) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SumByTarget sums the amounts of all live payments referencing the
	// target. This is the ground truth the recalculation path trusts over
	// any cached aggregate.
	SumByTarget(ctx context.Context, target TargetRef) (decimal.Decimal, error)
}
