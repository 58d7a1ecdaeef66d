package runtime

import (
	"context"
	"time"

	"github.com/openpoint/platform/internal/domain/integration"
	"go.uber.org/zap"
)

// guardedMetrics makes every sink call best-effort: a panicking sink is
// logged and swallowed so it can never fail a caller-visible operation.
type guardedMetrics struct {
	sink   MetricsSink
	logger *zap.Logger
}

func newGuardedMetrics(sink MetricsSink, logger *zap.Logger) guardedMetrics {
	if sink == nil {
		sink = NopMetrics{}
	}
	return guardedMetrics{sink: sink, logger: logger}
}

func (g guardedMetrics) do(op string, fn func(MetricsSink)) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("metrics sink failed", zap.String("op", op), zap.Any("panic", r))
		}
	}()
	fn(g.sink)
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) RecordExecution(context.Context, string, bool, time.Duration, int)         {}
func (NopMetrics) RecordAPICall(context.Context, string, string, string, int, time.Duration) {}
func (NopMetrics) RecordError(context.Context, string, string)                               {}
func (NopMetrics) SetIntegrationStatus(context.Context, string, integration.Status)          {}
func (NopMetrics) ClearIntegrationStatus(context.Context, string)                            {}
func (NopMetrics) SetActiveIntegrations(context.Context, int)                                {}
