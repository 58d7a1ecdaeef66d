package event

import (
	"context"

	"github.com/openpoint/platform/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured log line per domain event
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a wildcard handler that logs every event
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle logs the event envelope
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes is empty so the handler receives every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}
