package party

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRepository persists clients.
// AdjustOutstanding applies an atomic increment to the receivable balance
// (positive or negative delta) without a read-modify-write cycle; it is the
// preferred way to move a party balance inside a payment mutation.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustOutstanding(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// VendorRepository persists vendors. See ClientRepository for the
// AdjustOutstanding contract.
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Vendor, error)
	Save(ctx context.Context, vendor *Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustOutstanding(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}
