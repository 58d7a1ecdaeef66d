package connector

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists Connector aggregates
type Repository interface {
	// FindByID returns shared.ErrNotFound when the id is unknown
	FindByID(ctx context.Context, id uuid.UUID) (*Connector, error)
	FindAll(ctx context.Context) ([]Connector, error)
	Save(ctx context.Context, c *Connector) error
	Delete(ctx context.Context, id uuid.UUID) error
}
