package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

const metricsStartKey = "telemetry:metrics_start"

// DBMetrics reports connection pool state and per-statement query metrics.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter

	slowThreshold time.Duration
	registration  metric.Registration
}

// NewDBMetrics registers pool gauges that are observed from sqlDB on every
// collection, plus the query instruments fed by Register.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	m := &DBMetrics{slowThreshold: slowThreshold}
	var err error

	if m.queryTotal, err = NewCounter(meter, "db_query_total",
		"Database statements by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total",
		"Database statements slower than the slow threshold", "{query}"); err != nil {
		return nil, err
	}

	if sqlDB == nil {
		return m, nil
	}

	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections allowed"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(maxConns, int64(s.MaxOpenConnections))
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(s.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, conns, maxConns)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Register hooks the query instruments into db.
func (m *DBMetrics) Register(db *gorm.DB) error {
	return registerAround(db, "telemetry_metrics", "", markStart(metricsStartKey), func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			elapsed, ok := elapsedSince(tx, metricsStartKey)
			if !ok {
				return
			}
			m.RecordQuery(tx.Statement.Context, op, tx.Statement.Table, elapsed, tx.Error)
		}
	})
}

// RecordQuery records one statement. Record-not-found is not a failure.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if table == "" {
		table = "unknown"
	}
	result := "success"
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		result = "failure"
	}

	op := AttrDBOperation.String(operation)
	m.queryTotal.Inc(ctx, op, AttrDBTable.String(table), AttrResult.String(result))
	m.queryDuration.RecordDuration(ctx, duration, op)
	if duration > m.slowThreshold {
		m.slowQueryTotal.Inc(ctx, op, AttrDBTable.String(table))
	}
}

// Close stops observing the connection pool.
func (m *DBMetrics) Close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
