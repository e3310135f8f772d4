package sales

import (
	"context"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages sales. Recording a sale raises the client's outstanding
// receivable by the grand total and takes the line quantities out of stock;
// deleting a sale undoes whatever contribution is still open and removes the
// sale's payments with it.
type Service struct {
	scope  appledger.TransactionScope
	audit  appledger.AuditSink
	cache  appledger.CacheInvalidator
	logger *zap.Logger
}

// NewService creates a new sales Service
func NewService(scope appledger.TransactionScope, audit appledger.AuditSink, cache appledger.CacheInvalidator, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		audit:  audit,
		cache:  cache,
		logger: logger,
	}
}

// ItemInput is one requested sale line
type ItemInput struct {
	ItemID    uuid.UUID
	ItemName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// InitialPayment is an optional receipt recorded together with the sale
type InitialPayment struct {
	Amount      decimal.Decimal
	Method      ledger.PaymentMethod
	PaymentDate time.Time
	Reference   string
}

// CreateSaleCommand carries the inputs for recording a sale
type CreateSaleCommand struct {
	SaleNumber     string
	ClientID       uuid.UUID
	SaleDate       time.Time
	Items          []ItemInput
	Notes          string
	InitialPayment *InitialPayment
}

// CreateSale records a sale with its lines. In one transaction the sale is
// persisted, the client's outstanding receivable rises by the grand total,
// each line quantity is taken out of stock, and an initial receipt is
// recorded when one is attached.
func (s *Service) CreateSale(ctx context.Context, cmd CreateSaleCommand) (*sales.Sale, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "create_sale")
	defer span.End()

	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "A sale needs at least one line")
	}

	var sale *sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		client, err := repos.ClientRepo().FindByID(ctx, cmd.ClientID)
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(cmd.SaleNumber, client.ID, client.Name, cmd.SaleDate)
		if err != nil {
			return err
		}
		for _, in := range cmd.Items {
			if _, err := sale.AddItem(in.ItemID, in.ItemName, in.Quantity, valueobject.NewMoneyINR(in.UnitPrice)); err != nil {
				return err
			}
		}
		if cmd.Notes != "" {
			sale.SetNotes(cmd.Notes)
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := repos.ClientRepo().AdjustOutstanding(ctx, client.ID, sale.GrandTotal); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if err := repos.StockAdjuster().StockOut(ctx, item.ItemID, item.Quantity); err != nil {
				return err
			}
		}

		if cmd.InitialPayment != nil {
			_, err := appledger.RecordPaymentInScope(ctx, repos, appledger.CreatePaymentCommand{
				Target:          ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID},
				Amount:          cmd.InitialPayment.Amount,
				Method:          cmd.InitialPayment.Method,
				PaymentDate:     cmd.InitialPayment.PaymentDate,
				ReferenceNumber: cmd.InitialPayment.Reference,
			})
			if err != nil {
				return err
			}
			// Re-read so the returned sale carries the receipt's effect
			sale, err = repos.SaleRepo().FindByID(ctx, sale.ID)
			return err
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionCreate, sale, nil, sale)
	return sale, nil
}

// DeleteSale removes a sale together with its payments. The client's
// outstanding receivable drops by the sale's remaining amount, which is the
// exact contribution the sale still makes to the balance, and the line
// quantities return to stock.
func (s *Service) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "delete_sale")
	defer span.End()

	var before *sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		before = sale

		target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}
		payments, err := repos.PaymentRepo().FindByTarget(ctx, target)
		if err != nil {
			return err
		}
		for _, payment := range payments {
			if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
				return err
			}
		}

		if err := repos.ClientRepo().AdjustOutstanding(ctx, sale.ClientID, sale.RemainingAmount.Neg()); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if err := repos.StockAdjuster().StockIn(ctx, item.ItemID, item.Quantity); err != nil {
				return err
			}
		}
		return repos.SaleRepo().Delete(ctx, sale.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.afterCommit(ctx, ledger.AuditActionDelete, before, before, nil)
	return nil
}

// UpdateSaleCommand patches a sale's header fields. Nil fields are left
// unchanged. Line changes go through AddItem and RemoveItem so the balance
// and stock side effects stay explicit.
type UpdateSaleCommand struct {
	SaleDate *time.Time
	Notes    *string
}

// UpdateSale applies a header patch to a sale
func (s *Service) UpdateSale(ctx context.Context, saleID uuid.UUID, cmd UpdateSaleCommand) (*sales.Sale, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "update_sale")
	defer span.End()

	var sale *sales.Sale
	var before sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		before = *sale

		if cmd.SaleDate != nil {
			if err := sale.SetSaleDate(*cmd.SaleDate); err != nil {
				return err
			}
		}
		if cmd.Notes != nil {
			sale.SetNotes(*cmd.Notes)
		}

		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionUpdate, sale, &before, sale)
	return sale, nil
}

// AddItem appends a line to a sale that has no payments yet. The client's
// outstanding receivable and stock follow the grand total change.
func (s *Service) AddItem(ctx context.Context, saleID uuid.UUID, in ItemInput) (*sales.Sale, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "add_sale_item")
	defer span.End()

	var sale *sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		oldTotal := sale.GrandTotal
		item, err := sale.AddItem(in.ItemID, in.ItemName, in.Quantity, valueobject.NewMoneyINR(in.UnitPrice))
		if err != nil {
			return err
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := repos.ClientRepo().AdjustOutstanding(ctx, sale.ClientID, sale.GrandTotal.Sub(oldTotal)); err != nil {
			return err
		}
		return repos.StockAdjuster().StockOut(ctx, item.ItemID, item.Quantity)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionUpdate, sale, nil, sale)
	return sale, nil
}

// RemoveItem drops a line from a sale that has no payments yet
func (s *Service) RemoveItem(ctx context.Context, saleID, itemID uuid.UUID) (*sales.Sale, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "remove_sale_item")
	defer span.End()

	var sale *sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		var removed *sales.SaleItem
		for i := range sale.Items {
			if sale.Items[i].ItemID == itemID {
				item := sale.Items[i]
				removed = &item
				break
			}
		}
		if removed == nil {
			return shared.ErrNotFound
		}

		oldTotal := sale.GrandTotal
		if err := sale.RemoveItem(itemID); err != nil {
			return err
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}
		if err := repos.ClientRepo().AdjustOutstanding(ctx, sale.ClientID, sale.GrandTotal.Sub(oldTotal)); err != nil {
			return err
		}
		return repos.StockAdjuster().StockIn(ctx, removed.ItemID, removed.Quantity)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionUpdate, sale, nil, sale)
	return sale, nil
}

// GetSale loads a single sale with its lines
func (s *Service) GetSale(ctx context.Context, saleID uuid.UUID) (*sales.Sale, error) {
	var sale *sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		return err
	})
	return sale, err
}

// ListSales returns sales matching the filter
func (s *Service) ListSales(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.SaleRepo().FindAll(ctx, filter)
		return err
	})
	return result, err
}

// ListByClient returns a client's sales
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.SaleRepo().FindByClient(ctx, clientID, filter)
		return err
	})
	return result, err
}

func (s *Service) afterCommit(ctx context.Context, action ledger.AuditAction, sale *sales.Sale, oldValue, newValue interface{}) {
	entry, err := ledger.NewAuditEntry(action, "sale", sale.ID, oldValue, newValue)
	if err != nil {
		s.logger.Warn("failed to build audit entry",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err))
	} else {
		s.audit.Record(ctx, entry)
	}

	target := ledger.TargetRef{Kind: ledger.TargetKindSale, ID: sale.ID}
	party := ledger.PartyRef{Kind: ledger.PartyKindClient, ID: sale.ClientID}
	s.cache.Invalidate(ctx, "target:"+target.String(), "party:"+party.String())
}
