package sales

import (
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem is a line on a sale. BaseQuantity is deducted from inventory when
// the sale is recorded and restored when the sale is deleted.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null" json:"item_id"`
	ItemName  string          `gorm:"type:varchar(200);not null" json:"item_name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a new sale line
func NewSaleItem(saleID, itemID uuid.UUID, itemName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SaleItem, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if itemName == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &SaleItem{
		ID:        uuid.New(),
		SaleID:    saleID,
		ItemID:    itemID,
		ItemName:  itemName,
		Quantity:  quantity,
		UnitPrice: unitPrice.Amount(),
		Amount:    quantity.Mul(unitPrice.Amount()),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Sale is a payable target owed by a client. GrandTotal is the principal;
// the embedded tracking fields are derived exclusively through the status
// calculator inside the payment domain service.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"sale_number"`
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	ClientName string          `gorm:"type:varchar(200);not null" json:"client_name"`
	SaleDate   time.Time       `gorm:"not null;index" json:"sale_date"`
	Items      []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	GrandTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"grand_total"`
	ledger.PaymentTracking `gorm:"embedded"`
	Notes string `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale for a client
func NewSale(saleNumber string, clientID uuid.UUID, clientName string, saleDate time.Time) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if len(saleNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		ClientID:          clientID,
		ClientName:        clientName,
		SaleDate:          saleDate,
		Items:             make([]SaleItem, 0),
		GrandTotal:        decimal.Zero,
		PaymentTracking:   ledger.NewPaymentTracking(decimal.Zero),
	}, nil
}

// AddItem adds a line to the sale and recalculates the grand total.
// Adding items is only allowed while nothing has been paid yet.
func (s *Sale) AddItem(itemID uuid.UUID, itemName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*SaleItem, error) {
	if !s.TotalPaid.IsZero() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot change sale lines after payments have been recorded")
	}

	item, err := NewSaleItem(s.ID, itemID, itemName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotal()
	s.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a line from the sale and recalculates the grand total
func (s *Sale) RemoveItem(itemID uuid.UUID) error {
	if !s.TotalPaid.IsZero() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change sale lines after payments have been recorded")
	}

	for i, item := range s.Items {
		if item.ItemID == itemID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.recalculateTotal()
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Amount)
	}
	s.GrandTotal = total
	s.Refresh(s.GrandTotal)
}

// Principal returns the fixed amount owed on the sale
func (s *Sale) Principal() decimal.Decimal {
	return s.GrandTotal
}

// RecordPayment applies an additional paid amount to the sale's derived
// fields. Rejects overpayment before mutating anything.
func (s *Sale) RecordPayment(amount decimal.Decimal) error {
	if err := ledger.CanAcceptPayment(s.GrandTotal, s.TotalPaid, amount); err != nil {
		return err
	}
	s.AddPaid(s.GrandTotal, amount)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// RevertPayment removes a previously applied paid amount, re-deriving status
func (s *Sale) RevertPayment(amount decimal.Decimal) {
	s.RemovePaid(s.GrandTotal, amount)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetNotes sets the free-text notes
func (s *Sale) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
}

// SetSaleDate moves the sale to a different date
func (s *Sale) SetSaleDate(date time.Time) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_SALE_DATE", "Sale date cannot be empty")
	}
	s.SaleDate = date
	s.UpdatedAt = time.Now()
	return nil
}
