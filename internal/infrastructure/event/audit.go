package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/crmpro/backend/internal/domain/shared"
)

// AuditLogger is a wildcard subscriber that writes a structured audit
// record for every domain event published on the bus. It gives the
// operator a tenant-scoped trail of what happened (sales settled, debt
// repaid, stock received) without any aggregate knowing about it.
type AuditLogger struct {
	logger *zap.Logger
}

func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.Named("audit")}
}

var _ shared.EventHandler = (*AuditLogger)(nil)

func (a *AuditLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	a.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns nil so the bus treats the logger as a wildcard
// handler.
func (a *AuditLogger) EventTypes() []string { return nil }
