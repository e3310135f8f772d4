package assets

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AssetRepository persists assets
type AssetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Asset, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]Asset, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, asset *Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
}
