package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists Integration aggregates
type Repository interface {
	// FindByID returns shared.ErrNotFound when the id is unknown
	FindByID(ctx context.Context, id uuid.UUID) (*Integration, error)
	// FindAll returns every integration ordered by creation time
	FindAll(ctx context.Context) ([]Integration, error)
	Save(ctx context.Context, in *Integration) error
	// SaveWithLogs writes the aggregate and appends entries in one transaction
	SaveWithLogs(ctx context.Context, in *Integration, entries []LogEntry) error
	// Delete removes the integration and its timeline
	Delete(ctx context.Context, id uuid.UUID) error
}

// LogRepository reads and appends timeline entries
type LogRepository interface {
	// AppendBatch inserts all entries atomically; either all become visible or none
	AppendBatch(ctx context.Context, entries []LogEntry) error
	// FindRecent returns at most limit entries, newest first. Equal timestamps
	// are ordered by insertion, newest first.
	FindRecent(ctx context.Context, integrationID uuid.UUID, limit int) ([]LogEntry, error)
	// CountSince counts entries at level with timestamp strictly after since
	CountSince(ctx context.Context, integrationID uuid.UUID, level LogLevel, since time.Time) (int64, error)
}
