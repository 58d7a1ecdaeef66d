package connector

import (
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/connector"
)

// CreateConnectorRequest represents a request to create a connector
type CreateConnectorRequest struct {
	Name        string         `json:"name" binding:"required,min=1,max=200"`
	Type        string         `json:"type" binding:"required"`
	Description string         `json:"description" binding:"max=2000"`
	Config      map[string]any `json:"config" binding:"required"`
	OwnerID     *uuid.UUID     `json:"-"`
}

// UpdateConnectorRequest represents a partial update; empty fields are ignored
type UpdateConnectorRequest struct {
	Name        *string        `json:"name" binding:"omitempty,max=200"`
	Description *string        `json:"description" binding:"omitempty,max=2000"`
	Config      map[string]any `json:"config"`
}

// ConnectorResponse represents a connector in API responses. Config is
// omitted because it may carry credentials.
type ConnectorResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	LastTested  *time.Time `json:"last_tested"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TestConnectorResponse is the outcome of a liveness test
type TestConnectorResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	LastTested time.Time `json:"last_tested"`
}

// ConnectorFieldResponse describes one config field of a connector type
type ConnectorFieldResponse struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Default     any      `json:"default,omitempty"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// ConnectorTypeResponse describes a connector type and its config form
type ConnectorTypeResponse struct {
	Type         string                   `json:"type"`
	Name         string                   `json:"name"`
	Icon         string                   `json:"icon"`
	Description  string                   `json:"description"`
	ConfigSchema []ConnectorFieldResponse `json:"config_schema"`
}

// ToConnectorResponse converts a domain Connector to a response DTO
func ToConnectorResponse(c *connector.Connector) ConnectorResponse {
	return ConnectorResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type.String(),
		Description: c.Description,
		Status:      c.Status.String(),
		LastTested:  c.LastTested,
		CreatedAt:   c.CreatedAt,
	}
}

// ToConnectorTypeResponse converts a registry descriptor to a response DTO
func ToConnectorTypeResponse(d connector.Descriptor) ConnectorTypeResponse {
	fields := make([]ConnectorFieldResponse, 0, len(d.Fields))
	for _, f := range d.Fields {
		fields = append(fields, ConnectorFieldResponse{
			Name:        f.Name,
			Label:       f.Label,
			Type:        string(f.Kind),
			Required:    f.Required,
			Default:     f.Default,
			Options:     f.Options,
			Placeholder: f.Placeholder,
		})
	}
	return ConnectorTypeResponse{
		Type:         d.Type.String(),
		Name:         d.Name,
		Icon:         d.Icon,
		Description:  d.Description,
		ConfigSchema: fields,
	}
}
