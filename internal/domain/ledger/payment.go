package ledger

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque,
		PaymentMethodCard, PaymentMethodUPI, PaymentMethodOther:
		return true
	}
	return false
}

// TransactionType represents the business flow a payment belongs to
type TransactionType string

const (
	TransactionTypeSale     TransactionType = "sale"
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeExpense  TransactionType = "expense"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypePurchase, TransactionTypeExpense:
		return true
	}
	return false
}

// AccountType represents which side of the books a payment settles
type AccountType string

const (
	AccountTypeReceivable AccountType = "receivable"
	AccountTypePayable    AccountType = "payable"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	return t == AccountTypeReceivable || t == AccountTypePayable
}

// Payment is the immutable fact record of money changing hands against a
// target. It is created and mutated only through the payment domain service;
// the derived fields on targets and parties are adjusted in the same
// transaction scope as every Payment mutation.
type Payment struct {
	shared.BaseAggregateRoot
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	PaymentDate     time.Time       `gorm:"not null;index" json:"payment_date"`
	Method          PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	AccountType     AccountType     `gorm:"type:varchar(20);not null" json:"account_type"`
	TargetKind      TargetKind      `gorm:"type:varchar(20);not null;index:idx_payments_target" json:"target_kind"`
	TargetID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_payments_target" json:"target_id"`
	PartyKind       PartyKind       `gorm:"type:varchar(20);not null;index:idx_payments_party" json:"party_kind"`
	PartyID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_payments_party" json:"party_id"`
	TrancheNumber   *int            `json:"tranche_number,omitempty"`
	TotalTranches   *int            `json:"total_tranches,omitempty"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment fact record
func NewPayment(
	target TargetRef,
	party PartyRef,
	amount valueobject.Money,
	method PaymentMethod,
	transactionType TransactionType,
	accountType AccountType,
	paymentDate time.Time,
	notes string,
) (*Payment, error) {
	if target.IsZero() || !target.Kind.IsValid() || target.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Payment target reference is required")
	}
	// Party is optional: expense payments and vendorless asset purchases
	// have no counterparty balance to move.
	if !party.IsZero() && (!party.Kind.IsValid() || party.ID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_PARTY", "Payment party reference is malformed")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if !transactionType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Transaction type is not valid")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Amount:            amount.Amount(),
		PaymentDate:       paymentDate,
		Method:            method,
		TransactionType:   transactionType,
		AccountType:       accountType,
		TargetKind:        target.Kind,
		TargetID:          target.ID,
		PartyKind:         party.Kind,
		PartyID:           party.ID,
		Notes:             notes,
	}, nil
}

// Target returns the payment's target reference
func (p *Payment) Target() TargetRef {
	return TargetRef{Kind: p.TargetKind, ID: p.TargetID}
}

// Party returns the payment's party reference
func (p *Payment) Party() PartyRef {
	return PartyRef{Kind: p.PartyKind, ID: p.PartyID}
}

// HasParty returns true when the payment names a counterparty
func (p *Payment) HasParty() bool {
	return p.PartyID != uuid.Nil && p.PartyKind.IsValid()
}

// AmountMoney returns the payment amount as a Money value object
func (p *Payment) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Amount)
}

// SetTranche marks the payment as one installment of a schedule
func (p *Payment) SetTranche(number, total int) error {
	if number < 1 || total < 1 || number > total {
		return shared.NewDomainError("INVALID_TRANCHE", "Tranche number must be within 1..total")
	}
	p.TrancheNumber = &number
	p.TotalTranches = &total
	p.UpdatedAt = time.Now()
	return nil
}

// SetReferenceNumber sets the free-text reference number
func (p *Payment) SetReferenceNumber(ref string) {
	p.ReferenceNumber = ref
	p.UpdatedAt = time.Now()
}

// ChangeAmount replaces the payment amount. The caller is responsible for
// reverting and re-applying target and party impact in the same scope.
func (p *Payment) ChangeAmount(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	p.Amount = amount.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ChangeParty reassigns the payment to a different counterparty. A zero
// reference detaches the payment from any party.
func (p *Payment) ChangeParty(party PartyRef) error {
	if !party.IsZero() && (!party.Kind.IsValid() || party.ID == uuid.Nil) {
		return shared.NewDomainError("INVALID_PARTY", "Payment party reference is malformed")
	}
	p.PartyKind = party.Kind
	p.PartyID = party.ID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ChangeMethod replaces the payment method
func (p *Payment) ChangeMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	p.Method = method
	p.UpdatedAt = time.Now()
	return nil
}

// ChangePaymentDate replaces the payment date
func (p *Payment) ChangePaymentDate(date time.Time) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Payment date cannot be empty")
	}
	p.PaymentDate = date
	p.UpdatedAt = time.Now()
	return nil
}

// SetNotes sets the free-text notes
func (p *Payment) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
}
