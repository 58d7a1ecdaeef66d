package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/domain/shared"
	"go.uber.org/zap"
)

// StatusMetricsHandler keeps the per-integration status gauge and the
// active-count gauge in line with the store. It rescans every integration
// on each event, which is linear in the number of integrations. Names that
// disappear between scans, through deletion or rename, are cleared.
type StatusMetricsHandler struct {
	repo    integration.Repository
	metrics guardedMetrics

	mu        sync.Mutex
	published map[string]struct{}
}

// NewStatusMetricsHandler creates a StatusMetricsHandler
func NewStatusMetricsHandler(repo integration.Repository, metrics MetricsSink, logger *zap.Logger) *StatusMetricsHandler {
	return &StatusMetricsHandler{
		repo:      repo,
		metrics:   newGuardedMetrics(metrics, logger.Named("status_metrics")),
		published: make(map[string]struct{}),
	}
}

// EventTypes implements shared.EventHandler
func (h *StatusMetricsHandler) EventTypes() []string {
	return []string{
		integration.EventTypeIntegrationCreated,
		integration.EventTypeIntegrationStatusChanged,
		integration.EventTypeIntegrationDeleted,
	}
}

// Handle implements shared.EventHandler
func (h *StatusMetricsHandler) Handle(ctx context.Context, _ shared.DomainEvent) error {
	return h.Sync(ctx)
}

// Sync recomputes both gauges from the full integration set
func (h *StatusMetricsHandler) Sync(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	all, err := h.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("list integrations for metrics: %w", err)
	}

	active := 0
	current := make(map[string]struct{}, len(all))
	for i := range all {
		in := &all[i]
		current[in.Name] = struct{}{}
		h.metrics.do("set_integration_status", func(m MetricsSink) {
			m.SetIntegrationStatus(ctx, in.Name, in.Status)
		})
		if in.IsDeployed() {
			active++
		}
	}
	for name := range h.published {
		if _, ok := current[name]; ok {
			continue
		}
		h.metrics.do("clear_integration_status", func(m MetricsSink) {
			m.ClearIntegrationStatus(ctx, name)
		})
	}
	h.published = current
	h.metrics.do("set_active_integrations", func(m MetricsSink) {
		m.SetActiveIntegrations(ctx, active)
	})
	return nil
}

var _ shared.EventHandler = (*StatusMetricsHandler)(nil)
