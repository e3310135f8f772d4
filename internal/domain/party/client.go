package party

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClientStatus represents the status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// IsValid checks if the status is valid
func (s ClientStatus) IsValid() bool {
	return s == ClientStatusActive || s == ClientStatusInactive
}

// Client is a counterparty that owes the business money. Its
// OutstandingReceivable is the denormalized sum of remaining amounts across
// the client's unsettled sales, maintained incrementally on every payment
// mutation and recoverable exactly via recalculation.
type Client struct {
	shared.BaseAggregateRoot
	Name                  string          `gorm:"type:varchar(200);not null;index" json:"name"`
	ContactName           string          `gorm:"type:varchar(100)" json:"contact_name"`
	Phone                 string          `gorm:"type:varchar(50);index" json:"phone"`
	Email                 string          `gorm:"type:varchar(200)" json:"email"`
	Address               string          `gorm:"type:text" json:"address"`
	GSTNumber             string          `gorm:"type:varchar(50)" json:"gst_number"`
	OutstandingReceivable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"outstanding_receivable"`
	Notes                 string          `gorm:"type:text" json:"notes"`
	Status                ClientStatus    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client
func NewClient(name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}

	return &Client{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Name:                  name,
		OutstandingReceivable: decimal.Zero,
		Status:                ClientStatusActive,
	}, nil
}

// SetContact sets contact details
func (c *Client) SetContact(contactName, phone, email string) {
	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
}

// IncreaseOutstanding raises the client's receivable balance, e.g. when a
// new sale is recorded
func (c *Client) IncreaseOutstanding(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Outstanding adjustment must be non-negative")
	}
	c.OutstandingReceivable = c.OutstandingReceivable.Add(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// DecreaseOutstanding lowers the client's receivable balance, e.g. when a
// payment is received or a sale is deleted
func (c *Client) DecreaseOutstanding(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Outstanding adjustment must be non-negative")
	}
	c.OutstandingReceivable = c.OutstandingReceivable.Sub(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetOutstanding overwrites the receivable balance with a recomputed
// ground-truth value. Used only by the recalculation path.
func (c *Client) SetOutstanding(amount decimal.Decimal) {
	c.OutstandingReceivable = amount
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate marks the client inactive
func (c *Client) Deactivate() {
	c.Status = ClientStatusInactive
	c.UpdatedAt = time.Now()
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}
