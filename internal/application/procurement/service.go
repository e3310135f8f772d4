package procurement

import (
	"context"
	"time"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/procurement"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages procurement orders. Recording an order raises the vendor's
// outstanding payable by the grand total whether or not an advance payment
// is attached; goods orders also stock their line quantities in.
type Service struct {
	scope  appledger.TransactionScope
	audit  appledger.AuditSink
	cache  appledger.CacheInvalidator
	logger *zap.Logger
}

// NewService creates a new procurement Service
func NewService(scope appledger.TransactionScope, audit appledger.AuditSink, cache appledger.CacheInvalidator, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		audit:  audit,
		cache:  cache,
		logger: logger,
	}
}

// ItemInput is one requested order line
type ItemInput struct {
	ItemID    uuid.UUID
	ItemName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// InitialPayment is an optional advance recorded together with the order
type InitialPayment struct {
	Amount      decimal.Decimal
	Method      ledger.PaymentMethod
	PaymentDate time.Time
	Reference   string
}

// CreateOrderCommand carries the inputs for recording a procurement order
type CreateOrderCommand struct {
	OrderNumber    string
	Type           procurement.OrderType
	VendorID       uuid.UUID
	OrderDate      time.Time
	Items          []ItemInput
	Notes          string
	InitialPayment *InitialPayment
}

// CreateOrder records a procurement order with its lines. In one transaction
// the order is persisted, the vendor's outstanding payable rises by the
// grand total, goods quantities are stocked in, and an advance payment is
// recorded when one is attached.
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*procurement.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "procurement", "create_order")
	defer span.End()

	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "A procurement order needs at least one line")
	}

	var order *procurement.Order
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		vendor, err := repos.VendorRepo().FindByID(ctx, cmd.VendorID)
		if err != nil {
			return err
		}

		order, err = procurement.NewOrder(cmd.OrderNumber, cmd.Type, vendor.ID, vendor.Name, cmd.OrderDate)
		if err != nil {
			return err
		}
		for _, in := range cmd.Items {
			if _, err := order.AddItem(in.ItemID, in.ItemName, in.Quantity, valueobject.NewMoneyINR(in.UnitPrice)); err != nil {
				return err
			}
		}
		if cmd.Notes != "" {
			order.SetNotes(cmd.Notes)
		}

		if err := repos.ProcurementRepo().Save(ctx, order); err != nil {
			return err
		}
		if err := repos.VendorRepo().AdjustOutstanding(ctx, vendor.ID, order.GrandTotal); err != nil {
			return err
		}
		if cmd.Type != procurement.OrderTypeService {
			for _, item := range order.Items {
				if err := repos.StockAdjuster().StockIn(ctx, item.ItemID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if cmd.InitialPayment != nil {
			_, err := appledger.RecordPaymentInScope(ctx, repos, appledger.CreatePaymentCommand{
				Target:          ledger.TargetRef{Kind: ledger.TargetKindProcurement, ID: order.ID},
				Amount:          cmd.InitialPayment.Amount,
				Method:          cmd.InitialPayment.Method,
				PaymentDate:     cmd.InitialPayment.PaymentDate,
				ReferenceNumber: cmd.InitialPayment.Reference,
			})
			if err != nil {
				return err
			}
			// Re-read so the returned order carries the advance's effect
			order, err = repos.ProcurementRepo().FindByID(ctx, order.ID)
			return err
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionCreate, order, nil, order)
	return order, nil
}

// UpdateOrderCommand patches an order's header fields. Nil fields are left
// unchanged.
type UpdateOrderCommand struct {
	OrderDate *time.Time
	Notes     *string
}

// UpdateOrder applies a header patch to a procurement order
func (s *Service) UpdateOrder(ctx context.Context, orderID uuid.UUID, cmd UpdateOrderCommand) (*procurement.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "procurement", "update_order")
	defer span.End()

	var order *procurement.Order
	var before procurement.Order
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		order, err = repos.ProcurementRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		before = *order

		if cmd.OrderDate != nil {
			if err := order.SetOrderDate(*cmd.OrderDate); err != nil {
				return err
			}
		}
		if cmd.Notes != nil {
			order.SetNotes(*cmd.Notes)
		}

		return repos.ProcurementRepo().Save(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionUpdate, order, &before, order)
	return order, nil
}

// DeleteOrder removes an order together with its payments. The vendor's
// outstanding payable drops by the order's remaining amount and goods
// quantities are stocked back out.
func (s *Service) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "procurement", "delete_order")
	defer span.End()

	var before *procurement.Order
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		order, err := repos.ProcurementRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		before = order

		target := ledger.TargetRef{Kind: ledger.TargetKindProcurement, ID: order.ID}
		payments, err := repos.PaymentRepo().FindByTarget(ctx, target)
		if err != nil {
			return err
		}
		for _, payment := range payments {
			if err := repos.PaymentRepo().Delete(ctx, payment.ID); err != nil {
				return err
			}
		}

		if err := repos.VendorRepo().AdjustOutstanding(ctx, order.VendorID, order.RemainingAmount.Neg()); err != nil {
			return err
		}
		if order.Type != procurement.OrderTypeService {
			for _, item := range order.Items {
				if err := repos.StockAdjuster().StockOut(ctx, item.ItemID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return repos.ProcurementRepo().Delete(ctx, order.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.afterCommit(ctx, ledger.AuditActionDelete, before, before, nil)
	return nil
}

// GetOrder loads a single order with its lines
func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID) (*procurement.Order, error) {
	var order *procurement.Order
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		order, err = repos.ProcurementRepo().FindByID(ctx, orderID)
		return err
	})
	return order, err
}

// ListOrders returns orders of one type matching the filter
func (s *Service) ListOrders(ctx context.Context, orderType procurement.OrderType, filter shared.Filter) ([]procurement.Order, error) {
	var result []procurement.Order
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.ProcurementRepo().FindAll(ctx, orderType, filter)
		return err
	})
	return result, err
}

// ListByVendor returns a vendor's orders
func (s *Service) ListByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]procurement.Order, error) {
	var result []procurement.Order
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		var err error
		result, err = repos.ProcurementRepo().FindByVendor(ctx, vendorID, filter)
		return err
	})
	return result, err
}

func (s *Service) afterCommit(ctx context.Context, action ledger.AuditAction, order *procurement.Order, oldValue, newValue interface{}) {
	entry, err := ledger.NewAuditEntry(action, "procurement_order", order.ID, oldValue, newValue)
	if err != nil {
		s.logger.Warn("failed to build audit entry",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	} else {
		s.audit.Record(ctx, entry)
	}

	target := ledger.TargetRef{Kind: ledger.TargetKindProcurement, ID: order.ID}
	party := ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: order.VendorID}
	s.cache.Invalidate(ctx, "target:"+target.String(), "party:"+party.String())
}
