package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// logInsertBatchSize bounds the rows per INSERT when appending a timeline batch
const logInsertBatchSize = 100

// GormIntegrationRepository implements integration.Repository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindByID finds an integration by its ID
func (r *GormIntegrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every integration ordered by creation time
func (r *GormIntegrationRepository) FindAll(ctx context.Context) ([]integration.Integration, error) {
	var rows []models.IntegrationModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]integration.Integration, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save inserts or updates an integration
func (r *GormIntegrationRepository) Save(ctx context.Context, in *integration.Integration) error {
	return r.db.WithContext(ctx).Save(models.IntegrationFromDomain(in)).Error
}

// SaveWithLogs writes the integration and appends the entries in one transaction
func (r *GormIntegrationRepository) SaveWithLogs(ctx context.Context, in *integration.Integration, entries []integration.LogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.IntegrationFromDomain(in)).Error; err != nil {
			return err
		}
		return insertLogs(tx, entries)
	})
}

// Delete removes the integration and its timeline
func (r *GormIntegrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("integration_id = ?", id).Delete(&models.IntegrationLogModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.IntegrationModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return integration.ErrNotFound
		}
		return nil
	})
}

// GormLogRepository implements integration.LogRepository using GORM
type GormLogRepository struct {
	db *gorm.DB
}

// NewGormLogRepository creates a new GormLogRepository
func NewGormLogRepository(db *gorm.DB) *GormLogRepository {
	return &GormLogRepository{db: db}
}

// AppendBatch inserts all entries in one transaction
func (r *GormLogRepository) AppendBatch(ctx context.Context, entries []integration.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertLogs(tx, entries)
	})
}

// FindRecent returns at most limit entries, newest first
func (r *GormLogRepository) FindRecent(ctx context.Context, integrationID uuid.UUID, limit int) ([]integration.LogEntry, error) {
	var rows []models.IntegrationLogModel
	if err := r.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Order("logged_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]integration.LogEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// CountSince counts entries at level strictly after since
func (r *GormLogRepository) CountSince(ctx context.Context, integrationID uuid.UUID, level integration.LogLevel, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.IntegrationLogModel{}).
		Where("integration_id = ? AND level = ? AND logged_at > ?", integrationID, string(level), since.UTC()).
		Count(&n).Error
	return n, err
}

func insertLogs(tx *gorm.DB, entries []integration.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.IntegrationLogModel, len(entries))
	for i, e := range entries {
		rows[i] = models.IntegrationLogFromDomain(e)
		rows[i].ID = 0
	}
	return tx.CreateInBatches(rows, logInsertBatchSize).Error
}
