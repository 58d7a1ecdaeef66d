package runtime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ExecutionPath tells which branch produced a run's records
type ExecutionPath string

const (
	PathPrimary  ExecutionPath = "primary"
	PathFallback ExecutionPath = "fallback"
)

// Fixed positions of timeline entries relative to the run start.
const (
	primaryFirstFetchOffset = 150 * time.Millisecond
	primaryFetchSpacing     = 130 * time.Millisecond
	primaryTransformGap     = 40 * time.Millisecond
	primarySyncedGap        = 170 * time.Millisecond

	slowWarningOffset = 600 * time.Millisecond
	chaosErrorOffset  = 620 * time.Millisecond
	minFinalOffset    = 650 * time.Millisecond
)

var fallbackSteps = []struct {
	offset  time.Duration
	message string
	counted bool
}{
	{100 * time.Millisecond, "Connecting to source endpoint...", false},
	{250 * time.Millisecond, "Fetched %d records from source", true},
	{300 * time.Millisecond, "Applying transformation rules", false},
	{380 * time.Millisecond, "Transformed %d records", true},
	{420 * time.Millisecond, "Sending to destination endpoint...", false},
	{580 * time.Millisecond, "Successfully synced %d records to destination", true},
}

// ExecutionResult summarises one run
type ExecutionResult struct {
	Success          bool
	RecordsProcessed int
	DurationSeconds  float64
	LogsGenerated    int
	Path             ExecutionPath
	ErrorKind        ErrorKind
}

// ExecutionEngineConfig holds the engine's collaborators
type ExecutionEngineConfig struct {
	Integrations integration.Repository
	Logs         integration.LogRepository
	Locker       Locker
	Fetcher      Fetcher
	Sources      []Source
	CallTimeout  time.Duration
	Chaos        ChaosConfig
	Random       Random
	Clock        Clock
	Metrics      MetricsSink
	Publisher    shared.EventPublisher
	Logger       *zap.Logger
}

// ExecutionEngine runs deployed integrations: a primary pass against the
// configured sources, a simulated run when that pass fails, then chaos.
type ExecutionEngine struct {
	repo        integration.Repository
	logs        integration.LogRepository
	locker      Locker
	fetcher     Fetcher
	sources     []Source
	callTimeout time.Duration
	chaos       ChaosConfig
	random      Random
	clock       Clock
	metrics     guardedMetrics
	publisher   shared.EventPublisher
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewExecutionEngine creates an ExecutionEngine
func NewExecutionEngine(cfg ExecutionEngineConfig) *ExecutionEngine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("execution")
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Random == nil {
		cfg.Random = NewSeededRandom(0)
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 5 * time.Second
	}
	return &ExecutionEngine{
		repo:        cfg.Integrations,
		logs:        cfg.Logs,
		locker:      cfg.Locker,
		fetcher:     cfg.Fetcher,
		sources:     append([]Source(nil), cfg.Sources...),
		callTimeout: cfg.CallTimeout,
		chaos:       cfg.Chaos,
		random:      cfg.Random,
		clock:       cfg.Clock,
		metrics:     newGuardedMetrics(cfg.Metrics, logger),
		publisher:   cfg.Publisher,
		logger:      logger,
		tracer:      otel.Tracer("github.com/openpoint/platform/internal/application/runtime"),
	}
}

// Execute performs one run of a deployed integration. Runs on the same
// integration are serialised. Only NotFound, InvalidState and store
// failures are returned as errors; every other failure is part of the result.
func (e *ExecutionEngine) Execute(ctx context.Context, id uuid.UUID) (*ExecutionResult, error) {
	ctx, span := e.tracer.Start(ctx, "runtime.Execute",
		trace.WithAttributes(attribute.String("integration.id", id.String())))
	defer span.End()

	unlock, err := e.locker.Lock(ctx, IntegrationLockKey(id))
	if err != nil {
		return nil, fmt.Errorf("acquire integration lock: %w", err)
	}
	defer unlock()

	in, err := e.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !in.IsDeployed() {
		return nil, integration.ErrNotDeployed
	}

	began := e.clock.Now()
	start, err := timelineStart(context.WithoutCancel(ctx), e.logs, in.ID, began)
	if err != nil {
		return nil, fmt.Errorf("read execution timeline: %w", err)
	}
	tl := newTimeline(in.ID, start)
	tl.at(0, integration.LevelInfo, fmt.Sprintf("Execution triggered for '%s'", in.Name))

	result := &ExecutionResult{Success: true, Path: PathPrimary}

	primary := tl.fork()
	records, err := e.runPrimary(ctx, in, primary)
	if err != nil {
		e.logger.Debug("primary path failed, simulating run",
			zap.String("integration_id", in.ID.String()), zap.Error(err))
		result.Path = PathFallback
		records = drawFallbackRecords(e.random)
		for _, step := range fallbackSteps {
			msg := step.message
			if step.counted {
				msg = fmt.Sprintf(step.message, records)
			}
			tl.at(step.offset, integration.LevelInfo, msg)
		}
	} else {
		tl.merge(primary)
	}
	result.RecordsProcessed = records

	// From here on the run completes regardless of caller cancellation.
	ctx = context.WithoutCancel(ctx)

	chaos := e.chaos.roll(e.random)
	if chaos.SlowLatencyMs > 0 {
		tl.at(slowWarningOffset, integration.LevelWarn,
			fmt.Sprintf("Slow response detected: %dms", chaos.SlowLatencyMs))
	}
	if chaos.Failed {
		result.Success = false
		result.ErrorKind = chaos.Kind
		tl.at(chaosErrorOffset, integration.LevelError,
			fmt.Sprintf("%s: Failed to complete execution", chaos.Kind))
	}

	elapsed := e.clock.Now().Sub(began)
	if elapsed < 0 {
		elapsed = 0
	}
	result.DurationSeconds = elapsed.Seconds()
	finalOffset := max(elapsed, minFinalOffset)
	if result.Success {
		tl.at(finalOffset, integration.LevelInfo,
			fmt.Sprintf("Execution completed successfully in %dms", millis(elapsed)))
	} else {
		tl.at(finalOffset, integration.LevelError,
			fmt.Sprintf("Execution failed in %dms", millis(elapsed)))
	}
	result.LogsGenerated = tl.len()

	if err := e.logs.AppendBatch(ctx, tl.entries); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist timeline")
		return nil, fmt.Errorf("persist execution timeline: %w", err)
	}

	if chaos.Failed {
		e.metrics.do("record_error", func(m MetricsSink) {
			m.RecordError(ctx, in.Name, string(chaos.Kind))
		})
	}
	e.metrics.do("record_execution", func(m MetricsSink) {
		m.RecordExecution(ctx, in.Name, result.Success, elapsed, result.RecordsProcessed)
	})

	if e.publisher != nil {
		ev := integration.NewIntegrationExecutedEvent(in, result.Success, result.Path == PathFallback,
			result.RecordsProcessed, result.DurationSeconds, e.clock.Now())
		if err := e.publisher.Publish(ctx, ev); err != nil {
			e.logger.Warn("failed to publish execution event", zap.Error(err))
		}
	}

	span.SetAttributes(
		attribute.Bool("execution.success", result.Success),
		attribute.String("execution.path", string(result.Path)),
		attribute.Int("execution.records", result.RecordsProcessed),
	)
	e.logger.Info("integration executed",
		zap.String("integration_id", in.ID.String()),
		zap.Bool("success", result.Success),
		zap.String("path", string(result.Path)),
		zap.Int("records", result.RecordsProcessed),
		zap.Duration("duration", elapsed),
	)
	return result, nil
}

// runPrimary calls every source in order. Entries go to tl, which the
// caller discards on error. A metric is recorded for each completed call.
func (e *ExecutionEngine) runPrimary(ctx context.Context, in *integration.Integration, tl *timeline) (int, error) {
	if len(e.sources) == 0 {
		return 0, fmt.Errorf("%w: no sources configured", ErrCollaboratorUnavailable)
	}

	total := 0
	for i, src := range e.sources {
		n, elapsed, err := e.fetch(ctx, in, src)
		if err != nil {
			return 0, err
		}
		total += n
		tl.at(primaryFirstFetchOffset+time.Duration(i)*primaryFetchSpacing, integration.LevelInfo,
			fmt.Sprintf("Fetched %d %s from %s (%dms)", n, src.Resource, src.Label, millis(elapsed)))
	}

	lastFetch := primaryFirstFetchOffset + time.Duration(len(e.sources)-1)*primaryFetchSpacing
	tl.at(lastFetch+primaryTransformGap, integration.LevelInfo, "Data transformation completed")
	tl.at(lastFetch+primarySyncedGap, integration.LevelInfo, fmt.Sprintf("Successfully synced %d records", total))
	return total, nil
}

func (e *ExecutionEngine) fetch(ctx context.Context, in *integration.Integration, src Source) (int, time.Duration, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	callCtx, span := e.tracer.Start(callCtx, "runtime.fetch",
		trace.WithAttributes(attribute.String("collaborator", src.Target)))
	defer span.End()

	began := e.clock.Now()
	res, err := e.fetcher.Fetch(callCtx, src.URL)
	elapsed := e.clock.Now().Sub(began)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		if !errors.Is(err, ErrCollaboratorUnavailable) {
			err = fmt.Errorf("%w: %s: %v", ErrCollaboratorUnavailable, src.Target, err)
		}
		return 0, elapsed, err
	}

	e.metrics.do("record_api_call", func(m MetricsSink) {
		m.RecordAPICall(ctx, in.Name, src.Target, http.MethodGet, res.StatusCode, elapsed)
	})
	return res.Records, elapsed, nil
}

func millis(d time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}
