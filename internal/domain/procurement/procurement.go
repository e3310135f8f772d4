package procurement

import (
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType distinguishes the procurement collections kept by the business
type OrderType string

const (
	OrderTypeRawMaterial  OrderType = "raw_material"
	OrderTypeFinishedGood OrderType = "finished_good"
	OrderTypeService      OrderType = "service"
)

// IsValid checks if the order type is valid
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeRawMaterial, OrderTypeFinishedGood, OrderTypeService:
		return true
	}
	return false
}

// String returns the string representation of OrderType
func (t OrderType) String() string {
	return string(t)
}

// OrderItem is a line on a procurement order. Quantity is added into
// inventory when the order is recorded and removed when it is deleted.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null" json:"item_id"`
	ItemName  string          `gorm:"type:varchar(200);not null" json:"item_name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "procurement_items"
}

// NewOrderItem creates a new procurement order line
func NewOrderItem(orderID, itemID uuid.UUID, itemName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
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
	return &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ItemID:    itemID,
		ItemName:  itemName,
		Quantity:  quantity,
		UnitPrice: unitPrice.Amount(),
		Amount:    quantity.Mul(unitPrice.Amount()),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Order is a procurement order: a payable target owed to a vendor. Creating
// an order raises the vendor's outstanding payable by the grand total
// regardless of any attached payment.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	Type        OrderType       `gorm:"type:varchar(20);not null;index" json:"type"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	VendorName  string          `gorm:"type:varchar(200);not null" json:"vendor_name"`
	OrderDate   time.Time       `gorm:"not null;index" json:"order_date"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"grand_total"`
	ledger.PaymentTracking `gorm:"embedded"`
	Notes string `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "procurement_orders"
}

// NewOrder creates a new procurement order for a vendor
func NewOrder(orderNumber string, orderType OrderType, vendorID uuid.UUID, vendorName string, orderDate time.Time) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", "Procurement order type is not valid")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor name cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Type:              orderType,
		VendorID:          vendorID,
		VendorName:        vendorName,
		OrderDate:         orderDate,
		Items:             make([]OrderItem, 0),
		GrandTotal:        decimal.Zero,
		PaymentTracking:   ledger.NewPaymentTracking(decimal.Zero),
	}, nil
}

// AddItem adds a line to the order and recalculates the grand total.
// Only allowed while nothing has been paid yet.
func (o *Order) AddItem(itemID uuid.UUID, itemName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*OrderItem, error) {
	if !o.TotalPaid.IsZero() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot change order lines after payments have been recorded")
	}

	item, err := NewOrderItem(o.ID, itemID, itemName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.GrandTotal = total
	o.Refresh(o.GrandTotal)
}

// Principal returns the fixed amount owed on the order
func (o *Order) Principal() decimal.Decimal {
	return o.GrandTotal
}

// RecordPayment applies an additional paid amount to the order's derived
// fields. Rejects overpayment before mutating anything.
func (o *Order) RecordPayment(amount decimal.Decimal) error {
	if err := ledger.CanAcceptPayment(o.GrandTotal, o.TotalPaid, amount); err != nil {
		return err
	}
	o.AddPaid(o.GrandTotal, amount)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// RevertPayment removes a previously applied paid amount, re-deriving status
func (o *Order) RevertPayment(amount decimal.Decimal) {
	o.RemovePaid(o.GrandTotal, amount)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// SetNotes sets the free-text notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// SetOrderDate moves the order to a different date
func (o *Order) SetOrderDate(date time.Time) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_ORDER_DATE", "Order date cannot be empty")
	}
	o.OrderDate = date
	o.UpdatedAt = time.Now()
	return nil
}
