package assets

import (
	"context"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/assets"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages fixed asset purchases. An asset bought from a vendor
// contributes its purchase price to that vendor's outstanding payable;
// a vendorless purchase touches no party balance at all.
type Service struct {
	scope  appledger.TransactionScope
	audit  appledger.AuditSink
	cache  appledger.CacheInvalidator
	logger *zap.Logger
}

// NewService creates a new assets Service
func NewService(scope appledger.TransactionScope, audit appledger.AuditSink, cache appledger.CacheInvalidator, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		audit:  audit,
		cache:  cache,
		logger: logger,
	}
}

// InitialPayment is an optional payment recorded together with the purchase
type InitialPayment struct {
	Amount      decimal.Decimal
	Method      ledger.PaymentMethod
	PaymentDate time.Time
	Reference   string
}

// CreateAssetCommand carries the inputs for recording an asset purchase
type CreateAssetCommand struct {
	Name           string
	Category       assets.Category
	PurchasePrice  decimal.Decimal
	PurchaseDate   time.Time
	VendorID       *uuid.UUID
	Notes          string
	InitialPayment *InitialPayment
}

// CreateAsset records an asset purchase. When a vendor is named, the
// vendor's outstanding payable rises by the purchase price in the same
// transaction; an attached payment is recorded through the normal payment
// path and linked back onto the asset.
func (s *Service) CreateAsset(ctx context.Context, cmd CreateAssetCommand) (*assets.Asset, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assets", "create_asset")
	defer span.End()

	var asset *assets.Asset
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		asset, err = assets.NewAsset(cmd.Name, cmd.Category, valueobject.NewMoneyINR(cmd.PurchasePrice), cmd.PurchaseDate)
		if err != nil {
			return err
		}
		if cmd.Notes != "" {
			asset.SetNotes(cmd.Notes)
		}

		if cmd.VendorID != nil && *cmd.VendorID != uuid.Nil {
			vendor, err := repos.VendorRepo().FindByID(ctx, *cmd.VendorID)
			if err != nil {
				return err
			}
			if err := asset.AttachVendor(vendor.ID, vendor.Name); err != nil {
				return err
			}
			if err := repos.VendorRepo().AdjustOutstanding(ctx, vendor.ID, asset.PurchasePrice); err != nil {
				return err
			}
		}

		if err := repos.AssetRepo().Save(ctx, asset); err != nil {
			return err
		}

		if cmd.InitialPayment != nil {
			_, err := appledger.RecordPaymentInScope(ctx, repos, appledger.CreatePaymentCommand{
				Target:          ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID},
				Amount:          cmd.InitialPayment.Amount,
				Method:          cmd.InitialPayment.Method,
				PaymentDate:     cmd.InitialPayment.PaymentDate,
				ReferenceNumber: cmd.InitialPayment.Reference,
			})
			if err != nil {
				return err
			}
			asset, err = repos.AssetRepo().FindByID(ctx, asset.ID)
			return err
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionCreate, asset, nil, asset)
	return asset, nil
}

// ReassignVendor moves an asset purchase from one vendor to another, or
// attaches or detaches a vendor. The asset's open remainder moves between
// the vendors' payable balances and existing payments are repointed at the
// new vendor, so both sides end up as if the asset had been recorded
// against the right vendor from the start.
func (s *Service) ReassignVendor(ctx context.Context, assetID uuid.UUID, newVendorID *uuid.UUID) (*assets.Asset, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assets", "reassign_vendor")
	defer span.End()

	var asset *assets.Asset
	var before *assets.Asset
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		asset, err = repos.AssetRepo().FindByID(ctx, assetID)
		if err != nil {
			return err
		}
		snapshot := *asset
		before = &snapshot

		if asset.HasVendor() {
			if err := repos.VendorRepo().AdjustOutstanding(ctx, *asset.VendorID, asset.RemainingAmount.Neg()); err != nil {
				return err
			}
		}

		newParty := ledger.PartyRef{}
		if newVendorID != nil && *newVendorID != uuid.Nil {
			vendor, err := repos.VendorRepo().FindByID(ctx, *newVendorID)
			if err != nil {
				return err
			}
			if err := asset.AttachVendor(vendor.ID, vendor.Name); err != nil {
				return err
			}
			if err := repos.VendorRepo().AdjustOutstanding(ctx, vendor.ID, asset.RemainingAmount); err != nil {
				return err
			}
			newParty = ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: vendor.ID}
		} else {
			asset.DetachVendor()
		}

		// Repoint the asset's payments so the history reads as if they
		// had always been made to the new vendor.
		target := ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID}
		payments, err := repos.PaymentRepo().FindByTarget(ctx, target)
		if err != nil {
			return err
		}
		for i := range payments {
			if err := payments[i].ChangeParty(newParty); err != nil {
				return err
			}
			if err := repos.PaymentRepo().Save(ctx, &payments[i]); err != nil {
				return err
			}
		}

		return repos.AssetRepo().Save(ctx, asset)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionUpdate, asset, before, asset)
	return asset, nil
}

// DeleteAsset removes an asset together with its payments. A vendor-backed
// asset takes its remaining amount off the vendor's payable balance.
func (s *Service) DeleteAsset(ctx context.Context, assetID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "assets", "delete_asset")
	defer span.End()

	var before *assets.Asset
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		asset, err := repos.AssetRepo().FindByID(ctx, assetID)
		if err != nil {
			return err
		}
		before = asset

		target := ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID}
		payments, err := repos.PaymentRepo().FindByTarget(ctx, target)
		if err != nil {
			return err
		}
		for _, payment := range payments {
			if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
				return err
			}
		}

		if asset.HasVendor() {
			if err := repos.VendorRepo().AdjustOutstanding(ctx, *asset.VendorID, asset.RemainingAmount.Neg()); err != nil {
				return err
			}
		}
		return repos.AssetRepo().Delete(ctx, asset.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.afterCommit(ctx, ledger.AuditActionDelete, before, before, nil)
	return nil
}

// GetAsset loads a single asset
func (s *Service) GetAsset(ctx context.Context, assetID uuid.UUID) (*assets.Asset, error) {
	var asset *assets.Asset
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		asset, err = repos.AssetRepo().FindByID(ctx, assetID)
		return err
	})
	return asset, err
}

// ListAssets returns assets matching the filter
func (s *Service) ListAssets(ctx context.Context, filter shared.Filter) ([]assets.Asset, error) {
	var result []assets.Asset
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.AssetRepo().FindAll(ctx, filter)
		return err
	})
	return result, err
}

func (s *Service) afterCommit(ctx context.Context, action ledger.AuditAction, asset *assets.Asset, oldValue, newValue interface{}) {
	entry, err := ledger.NewAuditEntry(action, "asset", asset.ID, oldValue, newValue)
	if err != nil {
		s.logger.Warn("failed to build audit entry",
			zap.String("asset_id", asset.ID.String()),
			zap.Error(err))
	} else {
		s.audit.Record(ctx, entry)
	}

	target := ledger.TargetRef{Kind: ledger.TargetKindAsset, ID: asset.ID}
	keys := []string{"target:" + target.String()}
	if asset.HasVendor() {
		party := ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: *asset.VendorID}
		keys = append(keys, "party:"+party.String())
	}
	s.cache.Invalidate(ctx, keys...)
}
