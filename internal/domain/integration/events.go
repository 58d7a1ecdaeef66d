package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/shared"
)

// AggregateTypeIntegration is the aggregate type for integration events
const AggregateTypeIntegration = "Integration"

// Event type constants
const (
	EventTypeIntegrationCreated       = "IntegrationCreated"
	EventTypeIntegrationStatusChanged = "IntegrationStatusChanged"
	EventTypeIntegrationDeleted       = "IntegrationDeleted"
	EventTypeIntegrationExecuted      = "IntegrationExecuted"
)

// IntegrationCreatedEvent is published when a new integration is created
type IntegrationCreatedEvent struct {
	shared.BaseDomainEvent
	IntegrationID uuid.UUID `json:"integration_id"`
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
}

// NewIntegrationCreatedEvent creates a new IntegrationCreatedEvent
func NewIntegrationCreatedEvent(in *Integration, at time.Time) *IntegrationCreatedEvent {
	return &IntegrationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIntegrationCreated, AggregateTypeIntegration, in.ID, at),
		IntegrationID:   in.ID,
		Name:            in.Name,
		Status:          in.Status,
	}
}

// IntegrationStatusChangedEvent is published on every status transition
type IntegrationStatusChangedEvent struct {
	shared.BaseDomainEvent
	IntegrationID uuid.UUID `json:"integration_id"`
	Name          string    `json:"name"`
	OldStatus     Status    `json:"old_status"`
	NewStatus     Status    `json:"new_status"`
}

// NewIntegrationStatusChangedEvent creates a new IntegrationStatusChangedEvent
func NewIntegrationStatusChangedEvent(in *Integration, from, to Status, at time.Time) *IntegrationStatusChangedEvent {
	return &IntegrationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIntegrationStatusChanged, AggregateTypeIntegration, in.ID, at),
		IntegrationID:   in.ID,
		Name:            in.Name,
		OldStatus:       from,
		NewStatus:       to,
	}
}

// IntegrationDeletedEvent is published after an integration is removed
type IntegrationDeletedEvent struct {
	shared.BaseDomainEvent
	IntegrationID uuid.UUID `json:"integration_id"`
	Name          string    `json:"name"`
}

// NewIntegrationDeletedEvent creates a new IntegrationDeletedEvent
func NewIntegrationDeletedEvent(in *Integration, at time.Time) *IntegrationDeletedEvent {
	return &IntegrationDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIntegrationDeleted, AggregateTypeIntegration, in.ID, at),
		IntegrationID:   in.ID,
		Name:            in.Name,
	}
}

// IntegrationExecutedEvent is published after an execution's timeline is persisted
type IntegrationExecutedEvent struct {
	shared.BaseDomainEvent
	IntegrationID    uuid.UUID `json:"integration_id"`
	Name             string    `json:"name"`
	Success          bool      `json:"success"`
	Fallback         bool      `json:"fallback"`
	RecordsProcessed int       `json:"records_processed"`
	DurationSeconds  float64   `json:"duration_seconds"`
}

// NewIntegrationExecutedEvent creates a new IntegrationExecutedEvent
func NewIntegrationExecutedEvent(in *Integration, success, fallback bool, records int, duration float64, at time.Time) *IntegrationExecutedEvent {
	return &IntegrationExecutedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeIntegrationExecuted, AggregateTypeIntegration, in.ID, at),
		IntegrationID:    in.ID,
		Name:             in.Name,
		Success:          success,
		Fallback:         fallback,
		RecordsProcessed: records,
		DurationSeconds:  duration,
	}
}
