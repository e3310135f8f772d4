package assets

import (
	"time"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies a fixed asset
type Category string

const (
	CategoryMachinery   Category = "machinery"
	CategoryVehicle     Category = "vehicle"
	CategoryFurniture   Category = "furniture"
	CategoryElectronics Category = "electronics"
	CategoryOther       Category = "other"
)

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryMachinery, CategoryVehicle, CategoryFurniture, CategoryElectronics, CategoryOther:
		return true
	}
	return false
}

// Asset is a purchased fixed asset. It may be bought with or without a
// vendor; when a vendor is attached the purchase price contributes to that
// vendor's outstanding payable. PaymentID links the most recent payment
// recorded against the asset.
type Asset struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null;index" json:"name"`
	Category      Category        `gorm:"type:varchar(20);not null;default:'other'" json:"category"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"purchase_price"`
	PurchaseDate  time.Time       `gorm:"not null;index" json:"purchase_date"`
	VendorID      *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	VendorName    string          `gorm:"type:varchar(200)" json:"vendor_name,omitempty"`
	PaymentID     *uuid.UUID      `gorm:"type:uuid" json:"payment_id,omitempty"`
	ledger.PaymentTracking `gorm:"embedded"`
	Notes string `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates a new asset purchase record
func NewAsset(name string, category Category, purchasePrice valueobject.Money, purchaseDate time.Time) (*Asset, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot exceed 200 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Asset category is not valid")
	}
	if !purchasePrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price must be positive")
	}
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	return &Asset{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          category,
		PurchasePrice:     purchasePrice.Amount(),
		PurchaseDate:      purchaseDate,
		PaymentTracking:   ledger.NewPaymentTracking(purchasePrice.Amount()),
	}, nil
}

// AttachVendor associates the asset purchase with a vendor
func (a *Asset) AttachVendor(vendorID uuid.UUID, vendorName string) error {
	if vendorID == uuid.Nil {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if vendorName == "" {
		return shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor name cannot be empty")
	}
	a.VendorID = &vendorID
	a.VendorName = vendorName
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// DetachVendor removes the vendor association
func (a *Asset) DetachVendor() {
	a.VendorID = nil
	a.VendorName = ""
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// HasVendor returns true if a vendor is attached
func (a *Asset) HasVendor() bool {
	return a.VendorID != nil && *a.VendorID != uuid.Nil
}

// LinkPayment stores the direct reference to the payment recorded against
// the asset
func (a *Asset) LinkPayment(paymentID uuid.UUID) {
	if paymentID == uuid.Nil {
		a.PaymentID = nil
	} else {
		a.PaymentID = &paymentID
	}
	a.UpdatedAt = time.Now()
}

// Principal returns the fixed amount owed on the asset
func (a *Asset) Principal() decimal.Decimal {
	return a.PurchasePrice
}

// RecordPayment applies an additional paid amount to the asset's derived
// fields. Amounts beyond the purchase price are rejected before mutation.
func (a *Asset) RecordPayment(amount decimal.Decimal) error {
	if err := ledger.CanAcceptPayment(a.PurchasePrice, a.TotalPaid, amount); err != nil {
		return err
	}
	a.AddPaid(a.PurchasePrice, amount)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// RevertPayment removes a previously applied paid amount, re-deriving status
func (a *Asset) RevertPayment(amount decimal.Decimal) {
	a.RemovePaid(a.PurchasePrice, amount)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SetNotes sets the free-text notes
func (a *Asset) SetNotes(notes string) {
	a.Notes = notes
	a.UpdatedAt = time.Now()
}
