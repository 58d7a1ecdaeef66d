package telemetry

import (
	"context"
	"errors"
	"strconv"
	"time"

	appruntime "github.com/openpoint/platform/internal/application/runtime"
	"github.com/openpoint/platform/internal/domain/integration"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

var _ appruntime.MetricsSink = (*RuntimeMetrics)(nil)

// RuntimeMetrics holds the instruments for integration runs and connector tests.
type RuntimeMetrics struct {
	executionsTotal       *Counter
	apiCallsTotal         *Counter
	errorsTotal           *Counter
	recordsProcessedTotal *Counter
	connectorTestsTotal   *Counter

	integrationStatus  *Gauge
	integrationsActive *Gauge

	executionDuration     *Histogram
	apiCallDuration       *Histogram
	connectorTestDuration *Histogram
}

// NewRuntimeMetrics registers every runtime instrument on meter.
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &RuntimeMetrics{}
	var err error

	counters := []struct {
		dst  **Counter
		name string
		desc string
		unit string
	}{
		{&m.executionsTotal, "executions_total", "Integration executions by result", "{execution}"},
		{&m.apiCallsTotal, "api_calls_total", "Completed collaborator calls", "{call}"},
		{&m.errorsTotal, "errors_total", "Injected execution errors by kind", "{error}"},
		{&m.recordsProcessedTotal, "records_processed_total", "Records moved by executions", "{record}"},
		{&m.connectorTestsTotal, "connector_tests_total", "Connector liveness tests by result", "{test}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	if m.integrationStatus, err = NewGauge(meter, "integration_status",
		"Integration status (-1=removed 0=draft 1=deployed 2=stopped 3=error)", "1"); err != nil {
		return nil, err
	}
	if m.integrationsActive, err = NewGauge(meter, "integrations_active",
		"Number of deployed integrations", "{integration}"); err != nil {
		return nil, err
	}

	if m.executionDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "execution_duration_seconds",
		Description: "Wall time of integration executions",
		Unit:        "s",
		Boundaries:  ExecutionDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.apiCallDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "api_call_duration_seconds",
		Description: "Latency of collaborator calls",
		Unit:        "s",
		Boundaries:  CallDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.connectorTestDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "connector_test_duration_seconds",
		Description: "Duration of connector liveness tests",
		Unit:        "s",
		Boundaries:  ExecutionDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordExecution counts one finished execution.
func (m *RuntimeMetrics) RecordExecution(ctx context.Context, integrationName string, success bool, duration time.Duration, records int) {
	name := AttrIntegration.String(integrationName)
	m.executionsTotal.Inc(ctx, name, AttrResult.String(resultLabel(success)))
	m.executionDuration.RecordDuration(ctx, duration, name)
	if records > 0 {
		m.recordsProcessedTotal.Add(ctx, int64(records), name)
	}
}

// RecordAPICall counts one completed collaborator call.
func (m *RuntimeMetrics) RecordAPICall(ctx context.Context, integrationName, target, verb string, statusCode int, duration time.Duration) {
	name := AttrIntegration.String(integrationName)
	tgt := AttrTarget.String(target)
	m.apiCallsTotal.Inc(ctx, name, tgt, AttrVerb.String(verb), AttrStatus.String(strconv.Itoa(statusCode)))
	m.apiCallDuration.RecordDuration(ctx, duration, name, tgt)
}

// RecordError counts one injected error.
func (m *RuntimeMetrics) RecordError(ctx context.Context, integrationName, kind string) {
	m.errorsTotal.Inc(ctx, AttrIntegration.String(integrationName), AttrErrorKind.String(kind))
}

// SetIntegrationStatus publishes the numeric status of one integration.
func (m *RuntimeMetrics) SetIntegrationStatus(ctx context.Context, integrationName string, status integration.Status) {
	m.integrationStatus.Record(ctx, status.GaugeValue(), AttrIntegration.String(integrationName))
}

// RemovedStatusValue is recorded for a name that no integration carries anymore
const RemovedStatusValue int64 = -1

// ClearIntegrationStatus overwrites the last status of a deleted or renamed
// integration so the series stops reporting it.
func (m *RuntimeMetrics) ClearIntegrationStatus(ctx context.Context, integrationName string) {
	m.integrationStatus.Record(ctx, RemovedStatusValue, AttrIntegration.String(integrationName))
}

// SetActiveIntegrations publishes the deployed integration count.
func (m *RuntimeMetrics) SetActiveIntegrations(ctx context.Context, count int) {
	m.integrationsActive.Record(ctx, int64(count))
}

// RecordConnectorTest counts one connector liveness test.
func (m *RuntimeMetrics) RecordConnectorTest(ctx context.Context, connectorType string, success bool, duration time.Duration) {
	typ := AttrConnectorType.String(connectorType)
	m.connectorTestsTotal.Inc(ctx, typ, AttrResult.String(resultLabel(success)))
	m.connectorTestDuration.RecordDuration(ctx, duration, typ)
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
