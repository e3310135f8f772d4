package party

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VendorStatus represents the status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

// IsValid checks if the status is valid
func (s VendorStatus) IsValid() bool {
	return s == VendorStatusActive || s == VendorStatusInactive
}

// VendorCategory represents what a vendor supplies
type VendorCategory string

const (
	VendorCategoryMaterials VendorCategory = "materials"
	VendorCategoryServices  VendorCategory = "services"
	VendorCategoryEquipment VendorCategory = "equipment"
	VendorCategoryGeneral   VendorCategory = "general"
)

// IsValid checks if the category is valid
func (c VendorCategory) IsValid() bool {
	switch c {
	case VendorCategoryMaterials, VendorCategoryServices, VendorCategoryEquipment, VendorCategoryGeneral:
		return true
	}
	return false
}

// Vendor is a counterparty the business owes money to. OutstandingPayable is
// the denormalized sum of remaining amounts across the vendor's unsettled
// procurement orders and asset purchases.
type Vendor struct {
	shared.BaseAggregateRoot
	Name               string          `gorm:"type:varchar(200);not null;index" json:"name"`
	Category           VendorCategory  `gorm:"type:varchar(20);not null;default:'general'" json:"category"`
	ContactName        string          `gorm:"type:varchar(100)" json:"contact_name"`
	Phone              string          `gorm:"type:varchar(50);index" json:"phone"`
	Email              string          `gorm:"type:varchar(200)" json:"email"`
	Address            string          `gorm:"type:text" json:"address"`
	GSTNumber          string          `gorm:"type:varchar(50)" json:"gst_number"`
	OutstandingPayable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"outstanding_payable"`
	Notes              string          `gorm:"type:text" json:"notes"`
	Status             VendorStatus    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor
func NewVendor(name string, category VendorCategory) (*Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot exceed 200 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Vendor category is not valid")
	}

	return &Vendor{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		Category:           category,
		OutstandingPayable: decimal.Zero,
		Status:             VendorStatusActive,
	}, nil
}

// SetContact sets contact details
func (v *Vendor) SetContact(contactName, phone, email string) {
	v.ContactName = contactName
	v.Phone = phone
	v.Email = email
	v.UpdatedAt = time.Now()
}

// IncreaseOutstanding raises the vendor's payable balance, e.g. when a
// procurement order or asset purchase is recorded
func (v *Vendor) IncreaseOutstanding(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Outstanding adjustment must be non-negative")
	}
	v.OutstandingPayable = v.OutstandingPayable.Add(amount)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// DecreaseOutstanding lowers the vendor's payable balance, e.g. when a
// payment is made or an order is deleted
func (v *Vendor) DecreaseOutstanding(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Outstanding adjustment must be non-negative")
	}
	v.OutstandingPayable = v.OutstandingPayable.Sub(amount)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// SetOutstanding overwrites the payable balance with a recomputed
// ground-truth value. Used only by the recalculation path.
func (v *Vendor) SetOutstanding(amount decimal.Decimal) {
	v.OutstandingPayable = amount
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// Deactivate marks the vendor inactive
func (v *Vendor) Deactivate() {
	v.Status = VendorStatusInactive
	v.UpdatedAt = time.Now()
}

// IsActive returns true if the vendor is active
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}
