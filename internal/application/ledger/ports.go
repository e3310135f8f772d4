package ledger

import (
	"context"

	"github.com/bizledger/backend/internal/domain/ledger"
)

// AuditSink receives audit entries after a mutation has committed. Recording
// is best effort: a sink failure must never fail or roll back the mutation
// it describes, it is only logged.
type AuditSink interface {
	Record(ctx context.Context, entry *ledger.AuditEntry)
}

// CacheInvalidator drops cached read models after a mutation has committed.
// Best effort, same contract as AuditSink.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// NoOpAuditSink discards audit entries. Used in tests.
type NoOpAuditSink struct{}

func (NoOpAuditSink) Record(context.Context, *ledger.AuditEntry) {}

// NoOpCacheInvalidator ignores invalidations. Used in tests.
type NoOpCacheInvalidator struct{}

func (NoOpCacheInvalidator) Invalidate(context.Context, ...string) {}
