package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
)

// CreateIntegrationRequest represents a request to create an integration
type CreateIntegrationRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	FlowConfig  string     `json:"flow_config"`
	OwnerID     *uuid.UUID `json:"-"`
}

// UpdateIntegrationRequest replaces the descriptive fields of an integration
type UpdateIntegrationRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	FlowConfig  string `json:"flow_config"`
}

// IntegrationResponse represents an integration in API responses
type IntegrationResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	FlowConfig  string     `json:"flow_config"`
	Status      string     `json:"status"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToIntegrationResponse converts a domain Integration to a response DTO
func ToIntegrationResponse(in *integration.Integration) IntegrationResponse {
	return IntegrationResponse{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		FlowConfig:  in.FlowConfig,
		Status:      in.Status.String(),
		OwnerID:     in.OwnerID,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}
