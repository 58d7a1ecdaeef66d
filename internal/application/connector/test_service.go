package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/application/runtime"
	"github.com/openpoint/platform/internal/domain/connector"
	"github.com/openpoint/platform/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LivenessProber runs one connector liveness check
type LivenessProber interface {
	Probe(ctx context.Context, c *connector.Connector) ProbeResult
}

// TestMetrics records connector test outcomes
type TestMetrics interface {
	RecordConnectorTest(ctx context.Context, connectorType string, success bool, duration time.Duration)
}

// TestService runs connector liveness tests and records their outcome.
// Tests on the same connector are serialised.
type TestService struct {
	repo      connector.Repository
	prober    LivenessProber
	locker    runtime.Locker
	clock     runtime.Clock
	publisher shared.EventPublisher
	metrics   TestMetrics
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewTestService creates a new TestService. metrics and publisher may be nil.
func NewTestService(
	repo connector.Repository,
	prober LivenessProber,
	locker runtime.Locker,
	clock runtime.Clock,
	publisher shared.EventPublisher,
	metrics TestMetrics,
	logger *zap.Logger,
) *TestService {
	if clock == nil {
		clock = runtime.SystemClock{}
	}
	return &TestService{
		repo:      repo,
		prober:    prober,
		locker:    locker,
		clock:     clock,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.Named("connector_test"),
		tracer:    otel.Tracer("github.com/openpoint/platform/internal/application/connector"),
	}
}

// Test probes the connector and stores the resulting status and test time.
// Probe failures are reported in the response, never as an error.
func (s *TestService) Test(ctx context.Context, id uuid.UUID) (*TestConnectorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "connector.Test",
		trace.WithAttributes(attribute.String("connector.id", id.String())))
	defer span.End()

	unlock, err := s.locker.Lock(ctx, runtime.ConnectorLockKey(id))
	if err != nil {
		return nil, fmt.Errorf("acquire connector lock: %w", err)
	}
	defer unlock()

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	began := s.clock.Now()
	result := s.prober.Probe(ctx, c)
	now := s.clock.Now()

	ctx = context.WithoutCancel(ctx)
	c.RecordTest(result.Success, result.Message, now)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save connector test result: %w", err)
	}

	if events := c.PullDomainEvents(); len(events) > 0 && s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish connector events", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.recordMetrics(ctx, c.Type, result.Success, now.Sub(began))
	}

	span.SetAttributes(
		attribute.String("connector.type", c.Type.String()),
		attribute.Bool("connector.success", result.Success),
	)
	s.logger.Info("connector tested",
		zap.String("connector_id", c.ID.String()),
		zap.String("type", c.Type.String()),
		zap.Bool("success", result.Success),
		zap.String("message", result.Message),
	)

	return &TestConnectorResponse{
		Success:    result.Success,
		Message:    result.Message,
		Status:     c.Status.String(),
		LastTested: *c.LastTested,
	}, nil
}

func (s *TestService) recordMetrics(ctx context.Context, typ connector.Type, success bool, d time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("metrics sink failed", zap.Any("panic", r))
		}
	}()
	s.metrics.RecordConnectorTest(ctx, typ.String(), success, d)
}
