package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/connector"
	"github.com/openpoint/platform/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormConnectorRepository implements connector.Repository using GORM
type GormConnectorRepository struct {
	db *gorm.DB
}

// NewGormConnectorRepository creates a new GormConnectorRepository
func NewGormConnectorRepository(db *gorm.DB) *GormConnectorRepository {
	return &GormConnectorRepository{db: db}
}

// FindByID finds a connector by its ID
func (r *GormConnectorRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Connector, error) {
	var model models.ConnectorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connector.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll returns every connector ordered by creation time
func (r *GormConnectorRepository) FindAll(ctx context.Context) ([]connector.Connector, error) {
	var rows []models.ConnectorModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]connector.Connector, 0, len(rows))
	for i := range rows {
		c, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Save inserts or updates a connector
func (r *GormConnectorRepository) Save(ctx context.Context, c *connector.Connector) error {
	model, err := models.ConnectorFromDomain(c)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a connector
func (r *GormConnectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ConnectorModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return connector.ErrNotFound
	}
	return nil
}
