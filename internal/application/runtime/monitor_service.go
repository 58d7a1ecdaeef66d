package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
)

const (
	// HealthWindow is how far back ERROR entries count against health
	HealthWindow = time.Hour

	DefaultLogLimit = 100
	MaxLogLimit     = 100
)

// HealthReport is a point-in-time health verdict
type HealthReport struct {
	IntegrationID uuid.UUID
	Name          string
	Status        integration.Status
	Healthy       bool
	RecentErrors  int64
	LastCheck     time.Time
}

// MonitorService answers read-only questions about an integration's timeline
type MonitorService struct {
	repo  integration.Repository
	logs  integration.LogRepository
	clock Clock
}

// NewMonitorService creates a MonitorService
func NewMonitorService(repo integration.Repository, logs integration.LogRepository, clock Clock) *MonitorService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MonitorService{repo: repo, logs: logs, clock: clock}
}

// Health is recomputed on every call. An integration is healthy only when
// deployed and free of ERROR entries inside HealthWindow.
func (s *MonitorService) Health(ctx context.Context, id uuid.UUID) (*HealthReport, error) {
	in, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	errs, err := s.logs.CountSince(ctx, id, integration.LevelError, now.Add(-HealthWindow))
	if err != nil {
		return nil, fmt.Errorf("count recent errors: %w", err)
	}

	return &HealthReport{
		IntegrationID: in.ID,
		Name:          in.Name,
		Status:        in.Status,
		Healthy:       in.IsDeployed() && errs == 0,
		RecentErrors:  errs,
		LastCheck:     now,
	}, nil
}

// Logs returns the newest entries first. Non-positive limits fall back to
// DefaultLogLimit and larger ones are capped at MaxLogLimit.
func (s *MonitorService) Logs(ctx context.Context, id uuid.UUID, limit int) ([]integration.LogEntry, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}
	entries, err := s.logs.FindRecent(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("load integration logs: %w", err)
	}
	return entries, nil
}
