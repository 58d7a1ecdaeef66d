package integration

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Integration Errors
// ---------------------------------------------------------------------------

var (
	ErrNameRequired  = shared.NewDomainError("INVALID_INPUT", "integration: name is required")
	ErrNameTooLong   = shared.NewDomainError("INVALID_INPUT", "integration: name must be at most 200 characters")
	ErrInvalidStatus = shared.NewDomainError("INVALID_INPUT", "integration: invalid status")
	ErrNotFound      = shared.NewDomainError("NOT_FOUND", "Integration not found")
	ErrNotDeployed   = shared.NewDomainError("INVALID_STATE", "Integration is not deployed")
)

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// Status is the deployment status of an integration
type Status string

const (
	StatusDraft    Status = "draft"
	StatusDeployed Status = "deployed"
	StatusStopped  Status = "stopped"
	StatusError    Status = "error"
)

// IsValid returns true if the status is one of the known values
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusDeployed, StatusStopped, StatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// GaugeValue is the numeric encoding used by the integration_status gauge
func (s Status) GaugeValue() int64 {
	switch s {
	case StatusDeployed:
		return 1
	case StatusStopped:
		return 2
	case StatusError:
		return 3
	default:
		return 0
	}
}

// ParseStatus parses a status case-insensitively
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewDomainError(ErrInvalidStatus.Code, "integration: invalid status "+raw)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Integration aggregate
// ---------------------------------------------------------------------------

// Integration is a configured data-sync flow between two systems.
// FlowConfig is carried verbatim; it is never interpreted here.
type Integration struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	FlowConfig  string
	OwnerID     *uuid.UUID
	Status      Status
}

// NewIntegration creates an integration in draft status
func NewIntegration(name, description, flowConfig string, ownerID *uuid.UUID) (*Integration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > 200 {
		return nil, ErrNameTooLong
	}

	in := &Integration{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		FlowConfig:        flowConfig,
		OwnerID:           ownerID,
		Status:            StatusDraft,
	}
	in.AddDomainEvent(NewIntegrationCreatedEvent(in, in.CreatedAt))
	return in, nil
}

// IsDeployed reports whether the integration can be executed
func (i *Integration) IsDeployed() bool {
	return i.Status == StatusDeployed
}

// Deploy moves the integration to deployed from any status and returns the
// lifecycle entries to append to its timeline.
func (i *Integration) Deploy(now time.Time) []LogEntry {
	i.changeStatus(StatusDeployed, now)
	return []LogEntry{
		NewLogEntry(i.ID, LevelInfo, "Integration started", now),
		NewLogEntry(i.ID, LevelInfo, "Route started and listening for events", now),
	}
}

// Start is Deploy with the full runtime boot sequence on the timeline
func (i *Integration) Start(now time.Time) []LogEntry {
	i.changeStatus(StatusDeployed, now)
	return []LogEntry{
		NewLogEntry(i.ID, LevelInfo, "Integration started", now),
		NewLogEntry(i.ID, LevelInfo, "Loading flow configuration for '"+i.Name+"'", now),
		NewLogEntry(i.ID, LevelInfo, "Camel context initialized successfully", now),
		NewLogEntry(i.ID, LevelInfo, "Route started and listening for events", now),
	}
}

// Stop moves a deployed integration to stopped and returns the shutdown
// entries. Stopping anything that is not deployed fails with ErrNotDeployed.
func (i *Integration) Stop(now time.Time) ([]LogEntry, error) {
	if !i.IsDeployed() {
		return nil, ErrNotDeployed
	}
	i.changeStatus(StatusStopped, now)
	return []LogEntry{
		NewLogEntry(i.ID, LevelInfo, "Graceful shutdown initiated", now),
		NewLogEntry(i.ID, LevelInfo, "Route stopped", now),
		NewLogEntry(i.ID, LevelInfo, "Integration stopped", now),
	}, nil
}

// SetStatus assigns any valid status. This is the only way to reach
// StatusError; executions never call it.
func (i *Integration) SetStatus(status Status, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	i.changeStatus(status, now)
	return nil
}

// Update replaces the editable descriptive fields
func (i *Integration) Update(name, description, flowConfig string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	i.Name = name
	i.Description = description
	i.FlowConfig = flowConfig
	i.Touch(now)
	return nil
}

func (i *Integration) changeStatus(to Status, now time.Time) {
	from := i.Status
	i.Status = to
	i.Touch(now)
	i.AddDomainEvent(NewIntegrationStatusChangedEvent(i, from, to, now))
}
