package connector

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Connector Errors
// ---------------------------------------------------------------------------

var (
	ErrNameRequired = shared.NewDomainError("INVALID_INPUT", "connector: name is required")
	ErrInvalidType  = shared.NewDomainError("INVALID_INPUT", "connector: unknown connector type")
	ErrNotFound     = shared.NewDomainError("NOT_FOUND", "Connector not found")
)

// ---------------------------------------------------------------------------
// Type
// ---------------------------------------------------------------------------

// Type is the adapter kind of a connector
type Type string

const (
	TypeSAP        Type = "sap"
	TypeSalesforce Type = "salesforce"
	TypeDatabase   Type = "database"
	TypeHTTP       Type = "http"
	TypeSOAP       Type = "soap"
	TypeKafka      Type = "kafka"
	TypeFTP        Type = "ftp"
	TypeEmail      Type = "email"
	TypeS3         Type = "aws_s3"
	TypeAzureBlob  Type = "azure_blob"
)

// AllTypes returns every connector type in display order
func AllTypes() []Type {
	return []Type{
		TypeSAP, TypeSalesforce, TypeDatabase, TypeHTTP, TypeSOAP,
		TypeKafka, TypeFTP, TypeEmail, TypeS3, TypeAzureBlob,
	}
}

// IsValid returns true if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeSAP, TypeSalesforce, TypeDatabase, TypeHTTP, TypeSOAP,
		TypeKafka, TypeFTP, TypeEmail, TypeS3, TypeAzureBlob:
		return true
	default:
		return false
	}
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// Status is the liveness status of a connector. Only a test changes it.
type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
	StatusError    Status = "error"
)

// IsValid returns true if the status is known
func (s Status) IsValid() bool {
	return s == StatusInactive || s == StatusActive || s == StatusError
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Connector aggregate
// ---------------------------------------------------------------------------

// Connector is a reusable adapter configuration for an external system
type Connector struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Type        Type
	Config      map[string]any
	Status      Status
	LastTested  *time.Time
	OwnerID     *uuid.UUID
}

// NewConnector creates an inactive connector
func NewConnector(name string, typ Type, description string, config map[string]any, ownerID *uuid.UUID) (*Connector, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !typ.IsValid() {
		return nil, ErrInvalidType
	}
	if config == nil {
		config = map[string]any{}
	}
	return &Connector{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Type:              typ,
		Config:            config,
		Status:            StatusInactive,
		OwnerID:           ownerID,
	}, nil
}

// Update applies the non-empty fields of a partial update
func (c *Connector) Update(name, description *string, config map[string]any, now time.Time) {
	if name != nil && strings.TrimSpace(*name) != "" {
		c.Name = strings.TrimSpace(*name)
	}
	if description != nil && *description != "" {
		c.Description = *description
	}
	if len(config) > 0 {
		c.Config = config
	}
	c.Touch(now)
}

// RecordTest applies a liveness test outcome. LastTested is kept strictly
// increasing even if the clock does not advance between two tests.
func (c *Connector) RecordTest(success bool, message string, now time.Time) {
	if c.LastTested != nil && !now.After(*c.LastTested) {
		now = c.LastTested.Add(time.Microsecond)
	}
	from := c.Status
	if success {
		c.Status = StatusActive
	} else {
		c.Status = StatusError
	}
	tested := now
	c.LastTested = &tested
	c.Touch(now)
	c.AddDomainEvent(NewConnectorTestedEvent(c, from, success, message, now))
}

// ConfigString returns the config value for key rendered as a string, or ""
func (c *Connector) ConfigString(key string) string {
	v, ok := c.Config[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// HasConfig reports whether key is present with a non-empty, non-zero value
func (c *Connector) HasConfig(key string) bool {
	switch v := c.Config[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
