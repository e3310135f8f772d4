package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM.
// The table is append-only: no update or delete paths exist.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append writes a new audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *ledger.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByEntity returns the audit trail of an entity, newest first
func (r *GormAuditRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]ledger.AuditEntry, error) {
	var entries []ledger.AuditEntry
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormAuditRepository implements AuditRepository
var _ ledger.AuditRepository = (*GormAuditRepository)(nil)
