package ledger

import (
	"context"
	"fmt"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecalcService repairs denormalized state from ground truth. The sum of a
// target's live payment rows is authoritative: recalculation overwrites the
// target's derived fields with the recomputed result, and party balances
// with the sum of remaining amounts across their open obligations. Running
// it twice in a row changes nothing the second time.
type RecalcService struct {
	scope  TransactionScope
	audit  AuditSink
	logger *zap.Logger
}

// NewRecalcService creates a new RecalcService
func NewRecalcService(scope TransactionScope, audit AuditSink, logger *zap.Logger) *RecalcService {
	return &RecalcService{
		scope:  scope,
		audit:  audit,
		logger: logger,
	}
}

// TargetRecalcResult reports the outcome of recalculating one target
type TargetRecalcResult struct {
	Target  ledger.TargetRef    `json:"target"`
	Before  ledger.StatusResult `json:"before"`
	After   ledger.StatusResult `json:"after"`
	Changed bool                `json:"changed"`
}

// RecalcReport summarizes a full recalculation run
type RecalcReport struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// RecalculateTarget recomputes one target's derived payment fields from the
// sum of its live payments.
func (s *RecalcService) RecalculateTarget(ctx context.Context, target ledger.TargetRef) (*TargetRecalcResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "recalculate_target")
	defer span.End()

	var result *TargetRecalcResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		paid, err := repos.PaymentRepo().SumByTarget(ctx, target)
		if err != nil {
			return err
		}

		before, after, err := applyRecalc(ctx, repos, target, paid)
		if err != nil {
			return err
		}

		result = &TargetRecalcResult{
			Target:  target,
			Before:  before,
			After:   after,
			Changed: !statusEqual(before, after),
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if result.Changed {
		if entry, err := ledger.NewAuditEntry(ledger.AuditActionStatusChange,
			string(target.Kind), target.ID, result.Before, result.After); err == nil {
			s.audit.Record(ctx, entry)
		}
	}
	return result, nil
}

// RecalculateAll sweeps payable targets, restricted to the given kinds when
// any are named and covering every kind otherwise. Individual failures are
// logged and counted but do not stop the sweep.
func (s *RecalcService) RecalculateAll(ctx context.Context, kinds ...ledger.TargetKind) (*RecalcReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "recalculate_all")
	defer span.End()

	targets, err := s.collectTargets(ctx, kinds...)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	report := &RecalcReport{Total: len(targets)}
	for _, target := range targets {
		result, err := s.RecalculateTarget(ctx, target)
		if err != nil {
			report.Failed++
			s.logger.Warn("recalculation failed for target",
				zap.String("target", target.String()),
				zap.Error(err))
			continue
		}
		if result.Changed {
			report.Updated++
			s.logger.Info("recalculation repaired target",
				zap.String("target", target.String()),
				zap.String("status", string(result.After.PaymentStatus)))
		}
	}
	return report, nil
}

// RecalculateClientOutstanding overwrites a client's receivable balance with
// the sum of remaining amounts across their sales.
func (s *RecalcService) RecalculateClientOutstanding(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "recalculate_client_outstanding")
	defer span.End()

	var total decimal.Decimal
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		client, err := repos.ClientRepo().FindByID(ctx, clientID)
		if err != nil {
			return err
		}
		clientSales, err := repos.SaleRepo().FindByClient(ctx, clientID, shared.Filter{})
		if err != nil {
			return err
		}

		total = decimal.Zero
		for _, sale := range clientSales {
			total = total.Add(sale.RemainingAmount)
		}
		client.SetOutstanding(total)
		return repos.ClientRepo().Save(ctx, client)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, err
	}
	return total, nil
}

// RecalculateVendorOutstanding overwrites a vendor's payable balance with
// the sum of remaining amounts across procurement orders, asset purchases
// and expenses attached to the vendor.
func (s *RecalcService) RecalculateVendorOutstanding(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "recalculate_vendor_outstanding")
	defer span.End()

	var total decimal.Decimal
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		vendor, err := repos.VendorRepo().FindByID(ctx, vendorID)
		if err != nil {
			return err
		}

		total = decimal.Zero
		orders, err := repos.ProcurementRepo().FindByVendor(ctx, vendorID, shared.Filter{})
		if err != nil {
			return err
		}
		for _, order := range orders {
			total = total.Add(order.RemainingAmount)
		}

		vendorAssets, err := repos.AssetRepo().FindByVendor(ctx, vendorID, shared.Filter{})
		if err != nil {
			return err
		}
		for _, asset := range vendorAssets {
			total = total.Add(asset.RemainingAmount)
		}

		expenses, err := repos.ExpenseRepo().FindByVendor(ctx, vendorID, shared.Filter{})
		if err != nil {
			return err
		}
		for _, exp := range expenses {
			total = total.Add(exp.RemainingAmount)
		}

		vendor.SetOutstanding(total)
		return repos.VendorRepo().Save(ctx, vendor)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return decimal.Zero, err
	}
	return total, nil
}

// collectTargets lists payable targets, restricted to the given kinds when
// any are named
func (s *RecalcService) collectTargets(ctx context.Context, kinds ...ledger.TargetKind) ([]ledger.TargetRef, error) {
	wanted := func(kind ledger.TargetKind) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, k := range kinds {
			if k == kind {
				return true
			}
		}
		return false
	}

	var targets []ledger.TargetRef
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		all := []struct {
			kind ledger.TargetKind
			list func(context.Context) ([]uuid.UUID, error)
		}{
			{ledger.TargetKindSale, repos.SaleRepo().ListIDs},
			{ledger.TargetKindProcurement, repos.ProcurementRepo().ListIDs},
			{ledger.TargetKindAsset, repos.AssetRepo().ListIDs},
			{ledger.TargetKindExpense, repos.ExpenseRepo().ListIDs},
		}
		matched := 0
		for _, k := range all {
			if !wanted(k.kind) {
				continue
			}
			matched++
			ids, err := k.list(ctx)
			if err != nil {
				return fmt.Errorf("listing %s targets: %w", k.kind, err)
			}
			for _, id := range ids {
				targets = append(targets, ledger.TargetRef{Kind: k.kind, ID: id})
			}
		}
		if len(kinds) > 0 && matched == 0 {
			return shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("Unknown target kind %q", kinds[0]))
		}
		return nil
	})
	return targets, err
}

// applyRecalc loads the target, overwrites its derived fields with the
// ground-truth paid total and saves it. Returns before and after snapshots.
func applyRecalc(ctx context.Context, repos TransactionalRepositories, target ledger.TargetRef, paid decimal.Decimal) (ledger.StatusResult, ledger.StatusResult, error) {
	var zero ledger.StatusResult
	switch target.Kind {
	case ledger.TargetKindSale:
		sale, err := repos.SaleRepo().FindByID(ctx, target.ID)
		if err != nil {
			return zero, zero, err
		}
		before := sale.Result()
		sale.SetPaid(sale.Principal(), paid)
		return before, sale.Result(), repos.SaleRepo().Save(ctx, sale)

	case ledger.TargetKindProcurement:
		order, err := repos.ProcurementRepo().FindByID(ctx, target.ID)
		if err != nil {
			return zero, zero, err
		}
		before := order.Result()
		order.SetPaid(order.Principal(), paid)
		return before, order.Result(), repos.ProcurementRepo().Save(ctx, order)

	case ledger.TargetKindAsset:
		asset, err := repos.AssetRepo().FindByID(ctx, target.ID)
		if err != nil {
			return zero, zero, err
		}
		before := asset.Result()
		asset.SetPaid(asset.Principal(), paid)
		return before, asset.Result(), repos.AssetRepo().Save(ctx, asset)

	case ledger.TargetKindExpense:
		exp, err := repos.ExpenseRepo().FindByID(ctx, target.ID)
		if err != nil {
			return zero, zero, err
		}
		before := exp.Result()
		exp.SetPaid(exp.Principal(), paid)
		return before, exp.Result(), repos.ExpenseRepo().Save(ctx, exp)

	default:
		return zero, zero, shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("Unknown target kind %q", target.Kind))
	}
}

func statusEqual(a, b ledger.StatusResult) bool {
	return a.PaymentStatus == b.PaymentStatus &&
		a.TotalPaid.Equal(b.TotalPaid) &&
		a.RemainingAmount.Equal(b.RemainingAmount)
}
