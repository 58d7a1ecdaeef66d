package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/domain/shared"
	"go.uber.org/zap"
)

// LifecycleService applies status transitions to integrations. Each
// transition writes the new status and its timeline entries in one
// transaction, then publishes the aggregate's domain events.
type LifecycleService struct {
	repo      integration.Repository
	logs      integration.LogRepository
	locker    Locker
	publisher shared.EventPublisher
	clock     Clock
	logger    *zap.Logger
}

// NewLifecycleService creates a LifecycleService
func NewLifecycleService(
	repo integration.Repository,
	logs integration.LogRepository,
	locker Locker,
	publisher shared.EventPublisher,
	clock Clock,
	logger *zap.Logger,
) *LifecycleService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &LifecycleService{
		repo:      repo,
		logs:      logs,
		locker:    locker,
		publisher: publisher,
		clock:     clock,
		logger:    logger.Named("lifecycle"),
	}
}

// Deploy sets an integration to deployed from any status
func (s *LifecycleService) Deploy(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	return s.transition(ctx, id, "deploy", func(in *integration.Integration, now time.Time) ([]integration.LogEntry, error) {
		return in.Deploy(now), nil
	})
}

// Start deploys an integration and records the full boot sequence
func (s *LifecycleService) Start(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	return s.transition(ctx, id, "start", func(in *integration.Integration, now time.Time) ([]integration.LogEntry, error) {
		return in.Start(now), nil
	})
}

// Stop stops a deployed integration
func (s *LifecycleService) Stop(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	return s.transition(ctx, id, "stop", func(in *integration.Integration, now time.Time) ([]integration.LogEntry, error) {
		return in.Stop(now)
	})
}

// SetStatus assigns a status explicitly without timeline entries
func (s *LifecycleService) SetStatus(ctx context.Context, id uuid.UUID, status integration.Status) (*integration.Integration, error) {
	return s.transition(ctx, id, "set_status", func(in *integration.Integration, now time.Time) ([]integration.LogEntry, error) {
		return nil, in.SetStatus(status, now)
	})
}

type transitionFunc func(in *integration.Integration, now time.Time) ([]integration.LogEntry, error)

func (s *LifecycleService) transition(ctx context.Context, id uuid.UUID, op string, apply transitionFunc) (*integration.Integration, error) {
	unlock, err := s.locker.Lock(ctx, IntegrationLockKey(id))
	if err != nil {
		return nil, fmt.Errorf("acquire integration lock: %w", err)
	}
	defer unlock()

	in, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now, err := timelineStart(ctx, s.logs, id, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("read integration timeline: %w", err)
	}

	entries, err := apply(in, now)
	if err != nil {
		return nil, err
	}

	// Once the transition is decided it is written even if the caller goes away.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.repo.SaveWithLogs(persistCtx, in, entries); err != nil {
		return nil, fmt.Errorf("save integration %s: %w", op, err)
	}

	if events := in.PullDomainEvents(); len(events) > 0 && s.publisher != nil {
		if err := s.publisher.Publish(persistCtx, events...); err != nil {
			s.logger.Warn("failed to publish lifecycle events", zap.String("op", op), zap.Error(err))
		}
	}

	s.logger.Info("integration transitioned",
		zap.String("op", op),
		zap.String("integration_id", in.ID.String()),
		zap.String("status", in.Status.String()),
	)
	return in, nil
}
