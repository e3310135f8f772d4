package sales

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository persists sales with their line items
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Sale, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}
