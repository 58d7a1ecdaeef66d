package integration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/application/runtime"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/domain/shared"
	"go.uber.org/zap"
)

// IntegrationService handles integration CRUD. Status changes go through
// runtime.LifecycleService instead; Update and Delete take the same
// per-integration lock so they never write back a stale status.
type IntegrationService struct {
	repo      integration.Repository
	locker    runtime.Locker
	publisher shared.EventPublisher
	clock     runtime.Clock
	logger    *zap.Logger
}

// NewIntegrationService creates a new IntegrationService
func NewIntegrationService(
	repo integration.Repository,
	locker runtime.Locker,
	publisher shared.EventPublisher,
	clock runtime.Clock,
	logger *zap.Logger,
) *IntegrationService {
	if clock == nil {
		clock = runtime.SystemClock{}
	}
	return &IntegrationService{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		clock:     clock,
		logger:    logger.Named("integration"),
	}
}

// Create stores a new draft integration
func (s *IntegrationService) Create(ctx context.Context, req CreateIntegrationRequest) (*IntegrationResponse, error) {
	in, err := integration.NewIntegration(req.Name, req.Description, req.FlowConfig, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, in); err != nil {
		return nil, err
	}
	s.publish(ctx, in.PullDomainEvents()...)

	s.logger.Info("integration created", zap.String("integration_id", in.ID.String()))
	resp := ToIntegrationResponse(in)
	return &resp, nil
}

// List returns every integration, oldest first
func (s *IntegrationService) List(ctx context.Context) ([]IntegrationResponse, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]IntegrationResponse, 0, len(all))
	for i := range all {
		out = append(out, ToIntegrationResponse(&all[i]))
	}
	return out, nil
}

// Get returns an integration by ID
func (s *IntegrationService) Get(ctx context.Context, id uuid.UUID) (*IntegrationResponse, error) {
	in, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIntegrationResponse(in)
	return &resp, nil
}

// Update replaces name, description and flow config
func (s *IntegrationService) Update(ctx context.Context, id uuid.UUID, req UpdateIntegrationRequest) (*IntegrationResponse, error) {
	unlock, err := s.locker.Lock(ctx, runtime.IntegrationLockKey(id))
	if err != nil {
		return nil, fmt.Errorf("acquire integration lock: %w", err)
	}
	defer unlock()

	in, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Update(req.Name, req.Description, req.FlowConfig, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, in); err != nil {
		return nil, err
	}
	resp := ToIntegrationResponse(in)
	return &resp, nil
}

// Delete removes an integration together with its timeline
func (s *IntegrationService) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, runtime.IntegrationLockKey(id))
	if err != nil {
		return fmt.Errorf("acquire integration lock: %w", err)
	}
	defer unlock()

	in, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, integration.NewIntegrationDeletedEvent(in, s.clock.Now()))

	s.logger.Info("integration deleted", zap.String("integration_id", id.String()))
	return nil
}

func (s *IntegrationService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 || s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish integration events", zap.Error(err))
	}
}
