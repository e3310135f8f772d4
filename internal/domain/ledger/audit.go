package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditAction represents the kind of mutation an audit entry records
type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionUpdate       AuditAction = "update"
	AuditActionDelete       AuditAction = "delete"
	AuditActionStatusChange AuditAction = "status_change"
)

// IsValid checks if the audit action is valid
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete, AuditActionStatusChange:
		return true
	}
	return false
}

// AuditEntry is an append-only record of a mutation's before/after snapshot.
// Entries are never updated or deleted by the engine.
type AuditEntry struct {
	shared.BaseEntity
	Action     AuditAction `gorm:"type:varchar(20);not null" json:"action"`
	EntityType string      `gorm:"type:varchar(50);not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entity_id"`
	OldValue   string      `gorm:"type:jsonb" json:"old_value,omitempty"`
	NewValue   string      `gorm:"type:jsonb" json:"new_value,omitempty"`
	OccurredAt time.Time   `gorm:"not null;index" json:"occurred_at"`
}

// TableName returns the table name for GORM
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// NewAuditEntry creates an audit entry with JSON snapshots of the old and new
// state. Either snapshot may be nil (create has no old state, delete no new).
func NewAuditEntry(action AuditAction, entityType string, entityID uuid.UUID, oldValue, newValue interface{}) (*AuditEntry, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Audit action is not valid")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Audit entity type cannot be empty")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Audit entity id cannot be empty")
	}

	entry := &AuditEntry{
		BaseEntity: shared.NewBaseEntity(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OccurredAt: time.Now(),
	}

	if oldValue != nil {
		data, err := json.Marshal(oldValue)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal old value snapshot: %w", err)
		}
		entry.OldValue = string(data)
	}
	if newValue != nil {
		data, err := json.Marshal(newValue)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal new value snapshot: %w", err)
		}
		entry.NewValue = string(data)
	}

	return entry, nil
}

// AuditRepository persists audit entries. Append-only by contract.
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]AuditEntry, error)
}
