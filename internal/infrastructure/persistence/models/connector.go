package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/connector"
	"github.com/openpoint/platform/internal/domain/shared"
)

// ConnectorModel is the persistence model for the Connector aggregate
type ConnectorModel struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	Type        string     `gorm:"type:varchar(30);not null;index"`
	ConfigJSON  string     `gorm:"type:jsonb;column:config;not null"`
	Status      string     `gorm:"type:varchar(20);not null;default:'inactive'"`
	LastTested  *time.Time `gorm:"column:last_tested"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ConnectorModel) TableName() string {
	return "connectors"
}

// ToDomain converts the persistence model to a domain Connector
func (m *ConnectorModel) ToDomain() (*connector.Connector, error) {
	config := map[string]any{}
	if m.ConfigJSON != "" {
		if err := json.Unmarshal([]byte(m.ConfigJSON), &config); err != nil {
			return nil, fmt.Errorf("decode connector %s config: %w", m.ID, err)
		}
	}
	var lastTested *time.Time
	if m.LastTested != nil {
		t := m.LastTested.UTC()
		lastTested = &t
	}
	return &connector.Connector{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		Name:              m.Name,
		Description:       m.Description,
		Type:              connector.Type(m.Type),
		Config:            config,
		Status:            connector.Status(m.Status),
		LastTested:        lastTested,
		OwnerID:           m.OwnerID,
	}, nil
}

// ConnectorFromDomain creates a new ConnectorModel from a domain Connector
func ConnectorFromDomain(c *connector.Connector) (*ConnectorModel, error) {
	config := c.Config
	if config == nil {
		config = map[string]any{}
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("encode connector %s config: %w", c.ID, err)
	}
	m := &ConnectorModel{
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type.String(),
		ConfigJSON:  string(raw),
		Status:      c.Status.String(),
		OwnerID:     c.OwnerID,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	if c.LastTested != nil {
		t := c.LastTested.UTC()
		m.LastTested = &t
	}
	return m, nil
}
