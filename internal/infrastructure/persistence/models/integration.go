package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/domain/shared"
)

// IntegrationModel is the persistence model for the Integration aggregate
type IntegrationModel struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	FlowConfig  string     `gorm:"type:text;column:flow_config"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft';index"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "integrations"
}

// ToDomain converts the persistence model to a domain Integration
func (m *IntegrationModel) ToDomain() *integration.Integration {
	return &integration.Integration{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		Name:              m.Name,
		Description:       m.Description,
		FlowConfig:        m.FlowConfig,
		OwnerID:           m.OwnerID,
		Status:            integration.Status(m.Status),
	}
}

// FromDomain populates the persistence model from a domain Integration
func (m *IntegrationModel) FromDomain(in *integration.Integration) {
	m.FromDomainBaseEntity(in.BaseEntity)
	m.Name = in.Name
	m.Description = in.Description
	m.FlowConfig = in.FlowConfig
	m.OwnerID = in.OwnerID
	m.Status = in.Status.String()
}

// IntegrationFromDomain creates a new IntegrationModel from a domain Integration
func IntegrationFromDomain(in *integration.Integration) *IntegrationModel {
	m := &IntegrationModel{}
	m.FromDomain(in)
	return m
}

// IntegrationLogModel is one timeline row. The auto-increment ID orders
// rows that share a timestamp.
type IntegrationLogModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	IntegrationID uuid.UUID `gorm:"type:uuid;not null;index:idx_integration_logs_timeline,priority:1"`
	Level         string    `gorm:"type:varchar(10);not null"`
	Message       string    `gorm:"type:text;not null"`
	Timestamp     time.Time `gorm:"column:logged_at;not null;index:idx_integration_logs_timeline,priority:2"`
}

// TableName returns the table name for GORM
func (IntegrationLogModel) TableName() string {
	return "integration_logs"
}

// ToDomain converts the row to a domain LogEntry
func (m *IntegrationLogModel) ToDomain() integration.LogEntry {
	return integration.LogEntry{
		ID:            m.ID,
		IntegrationID: m.IntegrationID,
		Level:         integration.LogLevel(m.Level),
		Message:       m.Message,
		Timestamp:     m.Timestamp.UTC(),
	}
}

// IntegrationLogFromDomain creates a row for an unsaved entry
func IntegrationLogFromDomain(e integration.LogEntry) IntegrationLogModel {
	return IntegrationLogModel{
		ID:            e.ID,
		IntegrationID: e.IntegrationID,
		Level:         string(e.Level),
		Message:       e.Message,
		Timestamp:     e.Timestamp.UTC(),
	}
}
