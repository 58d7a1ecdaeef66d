package connector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/application/runtime"
	"github.com/openpoint/platform/internal/domain/connector"
	"go.uber.org/zap"
)

// ConfigValidator checks a config map against the schema of its type
type ConfigValidator interface {
	Validate(t connector.Type, config map[string]any) error
}

// ConnectorService handles connector CRUD and the type catalogue
type ConnectorService struct {
	repo      connector.Repository
	locker    runtime.Locker
	validator ConfigValidator
	clock     runtime.Clock
	logger    *zap.Logger
}

// NewConnectorService creates a new ConnectorService
func NewConnectorService(repo connector.Repository, locker runtime.Locker, validator ConfigValidator, clock runtime.Clock, logger *zap.Logger) *ConnectorService {
	if clock == nil {
		clock = runtime.SystemClock{}
	}
	return &ConnectorService{
		repo:      repo,
		locker:    locker,
		validator: validator,
		clock:     clock,
		logger:    logger.Named("connector"),
	}
}

// Create validates the config against the type schema and stores an
// inactive connector
func (s *ConnectorService) Create(ctx context.Context, req CreateConnectorRequest) (*ConnectorResponse, error) {
	typ := connector.Type(req.Type)
	if !typ.IsValid() {
		return nil, connector.ErrInvalidType
	}
	if err := s.validator.Validate(typ, req.Config); err != nil {
		return nil, err
	}

	c, err := connector.NewConnector(req.Name, typ, req.Description, req.Config, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("connector created",
		zap.String("connector_id", c.ID.String()),
		zap.String("type", c.Type.String()),
	)
	resp := ToConnectorResponse(c)
	return &resp, nil
}

// List returns every connector
func (s *ConnectorService) List(ctx context.Context) ([]ConnectorResponse, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ConnectorResponse, 0, len(all))
	for i := range all {
		out = append(out, ToConnectorResponse(&all[i]))
	}
	return out, nil
}

// Get returns a connector by ID
func (s *ConnectorService) Get(ctx context.Context, id uuid.UUID) (*ConnectorResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToConnectorResponse(c)
	return &resp, nil
}

// Update applies a partial update. A replacement config is validated first.
func (s *ConnectorService) Update(ctx context.Context, id uuid.UUID, req UpdateConnectorRequest) (*ConnectorResponse, error) {
	unlock, err := s.locker.Lock(ctx, runtime.ConnectorLockKey(id))
	if err != nil {
		return nil, fmt.Errorf("acquire connector lock: %w", err)
	}
	defer unlock()

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(req.Config) > 0 {
		if err := s.validator.Validate(c.Type, req.Config); err != nil {
			return nil, err
		}
	}

	c.Update(req.Name, req.Description, req.Config, s.clock.Now())
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToConnectorResponse(c)
	return &resp, nil
}

// Delete removes a connector
func (s *ConnectorService) Delete(ctx context.Context, id uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, runtime.ConnectorLockKey(id))
	if err != nil {
		return fmt.Errorf("acquire connector lock: %w", err)
	}
	defer unlock()

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("connector deleted", zap.String("connector_id", id.String()))
	return nil
}

// Types returns every connector type with its config form, in display order
func (s *ConnectorService) Types() []ConnectorTypeResponse {
	descriptors := connector.Descriptors()
	out := make([]ConnectorTypeResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, ToConnectorTypeResponse(d))
	}
	return out
}
