package persistence

import (
	"context"

	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/domain/ledger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RepositoryAuditSink records audit entries through the audit repository
// after the mutation they describe has committed. Recording is best effort:
// a failed write is logged and dropped, it never fails the mutation.
type RepositoryAuditSink struct {
	repo   ledger.AuditRepository
	logger *zap.Logger
}

// NewRepositoryAuditSink creates an audit sink backed by the audit table
func NewRepositoryAuditSink(db *gorm.DB, logger *zap.Logger) *RepositoryAuditSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryAuditSink{
		repo:   NewGormAuditRepository(db),
		logger: logger,
	}
}

// Record appends an audit entry, logging failures instead of returning them
func (s *RepositoryAuditSink) Record(ctx context.Context, entry *ledger.AuditEntry) {
	if entry == nil {
		return
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Warn("audit entry dropped",
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
	}
}

// Ensure RepositoryAuditSink implements AuditSink
var _ appledger.AuditSink = (*RepositoryAuditSink)(nil)
