package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService is the single write path for payment records. Every
// mutation runs in one transaction scope that keeps three things in step:
// the payment row, the target's derived payment fields and the counterparty
// outstanding balance. Audit entries and cache invalidations happen after
// commit and never fail the mutation.
type PaymentService struct {
	scope  TransactionScope
	audit  AuditSink
	cache  CacheInvalidator
	logger *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, audit AuditSink, cache CacheInvalidator, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		scope:  scope,
		audit:  audit,
		cache:  cache,
		logger: logger,
	}
}

// CreatePaymentCommand carries the inputs for recording a payment
type CreatePaymentCommand struct {
	Target          ledger.TargetRef
	Party           ledger.PartyRef // optional, validated against the target when set
	Amount          decimal.Decimal
	Method          ledger.PaymentMethod
	PaymentDate     time.Time
	TrancheNumber   *int
	TotalTranches   *int
	ReferenceNumber string
	Notes           string
}

// UpdatePaymentCommand carries the changed fields for a payment update.
// Nil fields are left untouched.
type UpdatePaymentCommand struct {
	Amount          *decimal.Decimal
	Method          *ledger.PaymentMethod
	PaymentDate     *time.Time
	Party           *ledger.PartyRef // must match the target's counterparty when set
	ReferenceNumber *string
	Notes           *string
}

// transactionTypeFor maps a target kind onto the business flow its payments
// belong to. The switch is exhaustive over ledger.TargetKind.
func transactionTypeFor(kind ledger.TargetKind) (ledger.TransactionType, ledger.AccountType, error) {
	switch kind {
	case ledger.TargetKindSale:
		return ledger.TransactionTypeSale, ledger.AccountTypeReceivable, nil
	case ledger.TargetKindProcurement, ledger.TargetKindAsset:
		return ledger.TransactionTypePurchase, ledger.AccountTypePayable, nil
	case ledger.TargetKindExpense:
		return ledger.TransactionTypeExpense, ledger.AccountTypePayable, nil
	default:
		return "", "", shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("Unknown target kind %q", kind))
	}
}

// applyToTarget loads the target, records the paid amount on its derived
// fields (rejecting overpayment) and returns the target's own counterparty
// reference together with a save closure. The closure receives the payment
// ID so asset targets can link their settling payment.
func applyToTarget(ctx context.Context, repos TransactionalRepositories, target ledger.TargetRef, amount decimal.Decimal) (ledger.PartyRef, func(paymentID uuid.UUID) error, error) {
	switch target.Kind {
	case ledger.TargetKindSale:
		sale, err := repos.SaleRepo().FindByID(ctx, target.ID)
		if err != nil {
			return ledger.PartyRef{}, nil, err
		}
		if err := sale.RecordPayment(amount); err != nil {
			return ledger.PartyRef{}, nil, err
		}
		party := ledger.PartyRef{Kind: ledger.PartyKindClient, ID: sale.ClientID}
		return party, func(uuid.UUID) error { return repos.SaleRepo().Save(ctx, sale) }, nil

	case ledger.TargetKindProcurement:
		order, err := repos.ProcurementRepo().FindByID(ctx, target.ID)
		if err != nil {
			return ledger.PartyRef{}, nil, err
		}
		if err := order.RecordPayment(amount); err != nil {
			return ledger.PartyRef{}, nil, err
		}
		party := ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: order.VendorID}
		return party, func(uuid.UUID) error { return repos.ProcurementRepo().Save(ctx, order) }, nil

	case ledger.TargetKindAsset:
		asset, err := repos.AssetRepo().FindByID(ctx, target.ID)
		if err != nil {
			return ledger.PartyRef{}, nil, err
		}
		if err := asset.RecordPayment(amount); err != nil {
			return ledger.PartyRef{}, nil, err
		}
		var party ledger.PartyRef
		if asset.HasVendor() {
			party = ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: *asset.VendorID}
		}
		return party, func(paymentID uuid.UUID) error {
			asset.LinkPayment(paymentID)
			return repos.AssetRepo().Save(ctx, asset)
		}, nil

	case ledger.TargetKindExpense:
		exp, err := repos.ExpenseRepo().FindByID(ctx, target.ID)
		if err != nil {
			return ledger.PartyRef{}, nil, err
		}
		if err := exp.RecordPayment(amount); err != nil {
			return ledger.PartyRef{}, nil, err
		}
		var party ledger.PartyRef
		if exp.VendorID != nil && *exp.VendorID != uuid.Nil {
			party = ledger.PartyRef{Kind: ledger.PartyKindVendor, ID: *exp.VendorID}
		}
		return party, func(uuid.UUID) error { return repos.ExpenseRepo().Save(ctx, exp) }, nil

	default:
		return ledger.PartyRef{}, nil, shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("Unknown target kind %q", target.Kind))
	}
}

// revertFromTarget loads the target and removes a previously recorded paid
// amount from its derived fields. Asset targets drop their payment link when
// it points at the reverted payment.
func revertFromTarget(ctx context.Context, repos TransactionalRepositories, target ledger.TargetRef, paymentID uuid.UUID, amount decimal.Decimal) error {
	switch target.Kind {
	case ledger.TargetKindSale:
		sale, err := repos.SaleRepo().FindByID(ctx, target.ID)
		if err != nil {
			return err
		}
		sale.RevertPayment(amount)
		return repos.SaleRepo().Save(ctx, sale)

	case ledger.TargetKindProcurement:
		order, err := repos.ProcurementRepo().FindByID(ctx, target.ID)
		if err != nil {
			return err
		}
		order.RevertPayment(amount)
		return repos.ProcurementRepo().Save(ctx, order)

	case ledger.TargetKindAsset:
		asset, err := repos.AssetRepo().FindByID(ctx, target.ID)
		if err != nil {
			return err
		}
		asset.RevertPayment(amount)
		if asset.PaymentID != nil && *asset.PaymentID == paymentID {
			asset.LinkPayment(uuid.Nil)
		}
		return repos.AssetRepo().Save(ctx, asset)

	case ledger.TargetKindExpense:
		exp, err := repos.ExpenseRepo().FindByID(ctx, target.ID)
		if err != nil {
			return err
		}
		exp.RevertPayment(amount)
		return repos.ExpenseRepo().Save(ctx, exp)

	default:
		return shared.NewDomainError("INVALID_TARGET", fmt.Sprintf("Unknown target kind %q", target.Kind))
	}
}

// adjustParty applies an atomic delta to a counterparty outstanding balance.
// A zero party reference is a no-op: the payment has no counterparty.
func adjustParty(ctx context.Context, repos TransactionalRepositories, party ledger.PartyRef, delta decimal.Decimal) error {
	if party.IsZero() || delta.IsZero() {
		return nil
	}
	switch party.Kind {
	case ledger.PartyKindClient:
		return repos.ClientRepo().AdjustOutstanding(ctx, party.ID, delta)
	case ledger.PartyKindVendor:
		return repos.VendorRepo().AdjustOutstanding(ctx, party.ID, delta)
	default:
		return shared.NewDomainError("INVALID_PARTY", fmt.Sprintf("Unknown party kind %q", party.Kind))
	}
}

// RecordPaymentInScope records a payment inside an already-open transaction
// scope. Flows that create a target together with its first payment (a
// procurement order with an advance, a loan installment) call this so the
// whole mutation commits as one transaction. CreatePayment wraps it in a
// scope of its own.
func RecordPaymentInScope(ctx context.Context, repos TransactionalRepositories, cmd CreatePaymentCommand) (*ledger.Payment, error) {
	txType, acctType, err := transactionTypeFor(cmd.Target.Kind)
	if err != nil {
		return nil, err
	}

	party, saveTarget, err := applyToTarget(ctx, repos, cmd.Target, cmd.Amount)
	if err != nil {
		return nil, err
	}

	// A caller-supplied party must agree with the target's own
	// counterparty; the target is authoritative.
	if !cmd.Party.IsZero() && cmd.Party != party {
		return nil, shared.NewDomainError("PARTY_MISMATCH", "Payment party does not match the target's counterparty")
	}

	payment, err := ledger.NewPayment(cmd.Target, party, valueobject.NewMoneyINR(cmd.Amount),
		cmd.Method, txType, acctType, cmd.PaymentDate, cmd.Notes)
	if err != nil {
		return nil, err
	}
	if cmd.TrancheNumber != nil && cmd.TotalTranches != nil {
		if err := payment.SetTranche(*cmd.TrancheNumber, *cmd.TotalTranches); err != nil {
			return nil, err
		}
	}
	if cmd.ReferenceNumber != "" {
		payment.SetReferenceNumber(cmd.ReferenceNumber)
	}

	if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
		return nil, err
	}
	if err := saveTarget(payment.ID); err != nil {
		return nil, err
	}
	if err := adjustParty(ctx, repos, party, cmd.Amount.Neg()); err != nil {
		return nil, err
	}
	return payment, nil
}

// CreatePayment records a payment against a target. The target's derived
// fields move through the status calculator and the counterparty outstanding
// balance drops by the paid amount, all in one transaction.
func (s *PaymentService) CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (*ledger.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "create_payment")
	defer span.End()

	var payment *ledger.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = RecordPaymentInScope(ctx, repos, cmd)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionCreate, payment, nil, payment)
	return payment, nil
}

// UpdatePayment changes a payment in two phases: the old amount is fully
// reverted from the target and party, then the new state is applied from
// scratch. The same overpayment check used on create guards the re-apply.
func (s *PaymentService) UpdatePayment(ctx context.Context, paymentID uuid.UUID, cmd UpdatePaymentCommand) (*ledger.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "update_payment")
	defer span.End()

	var payment *ledger.Payment
	var before *ledger.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		snapshot := *payment
		before = &snapshot

		oldAmount := payment.Amount
		oldParty := payment.Party()
		newAmount := oldAmount
		if cmd.Amount != nil {
			newAmount = *cmd.Amount
		}

		// Phase one: take the old amount off the target and give it back
		// to the counterparty.
		if err := revertFromTarget(ctx, repos, payment.Target(), payment.ID, oldAmount); err != nil {
			return err
		}
		if err := adjustParty(ctx, repos, oldParty, oldAmount); err != nil {
			return err
		}

		// Phase two: apply the new state as if the payment were fresh.
		newParty, saveTarget, err := applyToTarget(ctx, repos, payment.Target(), newAmount)
		if err != nil {
			return err
		}
		// The target stays authoritative on update too: a patch may
		// restate the counterparty but never detach or replace it,
		// otherwise the party balance would drift from the target's
		// remaining amount.
		if cmd.Party != nil && *cmd.Party != newParty {
			if cmd.Party.IsZero() {
				return shared.NewDomainError("PARTY_MISMATCH", "Payment cannot be detached from the target's counterparty")
			}
			return shared.NewDomainError("PARTY_MISMATCH", "Payment party does not match the target's counterparty")
		}

		if cmd.Amount != nil {
			if err := payment.ChangeAmount(valueobject.NewMoneyINR(newAmount)); err != nil {
				return err
			}
		}
		if err := payment.ChangeParty(newParty); err != nil {
			return err
		}
		if cmd.Method != nil {
			if err := payment.ChangeMethod(*cmd.Method); err != nil {
				return err
			}
		}
		if cmd.PaymentDate != nil {
			if err := payment.ChangePaymentDate(*cmd.PaymentDate); err != nil {
				return err
			}
		}
		if cmd.ReferenceNumber != nil {
			payment.SetReferenceNumber(*cmd.ReferenceNumber)
		}
		if cmd.Notes != nil {
			payment.SetNotes(*cmd.Notes)
		}

		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		if err := saveTarget(payment.ID); err != nil {
			return err
		}
		return adjustParty(ctx, repos, newParty, newAmount.Neg())
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.afterCommit(ctx, ledger.AuditActionUpdate, payment, before, payment)
	return payment, nil
}

// DeletePayment removes a payment and rolls its impact off the target and
// the counterparty. Payments created by a loan installment must be removed
// through the loan service so the whole installment stays consistent.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "delete_payment")
	defer span.End()

	var before *ledger.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		before = payment

		if _, err := repos.InterestPaymentRepo().FindByPayment(ctx, paymentID); err == nil {
			return shared.NewDomainError("INSTALLMENT_PAYMENT", "Payment belongs to a loan installment and must be removed through the loan")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		if err := revertFromTarget(ctx, repos, payment.Target(), payment.ID, payment.Amount); err != nil {
			return err
		}
		if err := adjustParty(ctx, repos, payment.Party(), payment.Amount); err != nil {
			return err
		}
		return repos.PaymentRepo().Delete(ctx, paymentID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.afterCommit(ctx, ledger.AuditActionDelete, before, before, nil)
	return nil
}

// GetPayment loads a single payment
func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*ledger.Payment, error) {
	var payment *ledger.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.PaymentRepo().FindByID(ctx, paymentID)
		return err
	})
	return payment, err
}

// ListByTarget returns all payments recorded against a target
func (s *PaymentService) ListByTarget(ctx context.Context, target ledger.TargetRef) ([]ledger.Payment, error) {
	var payments []ledger.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payments, err = repos.PaymentRepo().FindByTarget(ctx, target)
		return err
	})
	return payments, err
}

// ListByParty returns payments involving a counterparty
func (s *PaymentService) ListByParty(ctx context.Context, party ledger.PartyRef, filter shared.Filter) ([]ledger.Payment, error) {
	var payments []ledger.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payments, err = repos.PaymentRepo().FindByParty(ctx, party, filter)
		return err
	})
	return payments, err
}

// afterCommit records the audit trail and drops cached read models. Both are
// best effort.
func (s *PaymentService) afterCommit(ctx context.Context, action ledger.AuditAction, payment *ledger.Payment, oldValue, newValue interface{}) {
	entry, err := ledger.NewAuditEntry(action, "payment", payment.ID, oldValue, newValue)
	if err != nil {
		s.logger.Warn("failed to build audit entry",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
	} else {
		s.audit.Record(ctx, entry)
	}

	keys := []string{"target:" + payment.Target().String()}
	if payment.HasParty() {
		keys = append(keys, "party:"+payment.Party().String())
	}
	s.cache.Invalidate(ctx, keys...)
}
