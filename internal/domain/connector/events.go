package connector

import (
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/shared"
)

// AggregateTypeConnector is the aggregate type for connector events
const AggregateTypeConnector = "Connector"

// EventTypeConnectorTested is raised by every liveness test
const EventTypeConnectorTested = "ConnectorTested"

// ConnectorTestedEvent is published after a test outcome is persisted
type ConnectorTestedEvent struct {
	shared.BaseDomainEvent
	ConnectorID uuid.UUID `json:"connector_id"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	OldStatus   Status    `json:"old_status"`
	NewStatus   Status    `json:"new_status"`
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
}

// NewConnectorTestedEvent creates a new ConnectorTestedEvent
func NewConnectorTestedEvent(c *Connector, from Status, success bool, message string, at time.Time) *ConnectorTestedEvent {
	return &ConnectorTestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConnectorTested, AggregateTypeConnector, c.ID, at),
		ConnectorID:     c.ID,
		Name:            c.Name,
		Type:            c.Type,
		OldStatus:       from,
		NewStatus:       c.Status,
		Success:         success,
		Message:         message,
	}
}
