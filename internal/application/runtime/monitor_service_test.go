package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorService_Health(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*MonitorService, *memRepo, *memLogs, *fakeClock, *integration.Integration) {
		t.Helper()
		logs := &memLogs{}
		repo := newMemRepo(logs)
		clock := newFakeClock()
		clock.Set(testEpoch.Add(2 * time.Hour))
		in := newDeployedIntegration(repo, "Health")
		return NewMonitorService(repo, logs, clock), repo, logs, clock, in
	}

	t.Run("deployed without errors is healthy", func(t *testing.T) {
		svc, _, logs, clock, in := setup(t)
		require.NoError(t, logs.AppendBatch(ctx, []integration.LogEntry{
			integration.NewLogEntry(in.ID, integration.LevelWarn, "Slow response detected: 900ms", clock.Now().Add(-time.Minute)),
		}))

		report, err := svc.Health(ctx, in.ID)
		require.NoError(t, err)
		assert.True(t, report.Healthy)
		assert.Zero(t, report.RecentErrors)
		assert.Equal(t, "Health", report.Name)
		assert.Equal(t, integration.StatusDeployed, report.Status)
		assert.Equal(t, testEpoch.Add(2*time.Hour), report.LastCheck)
	})

	t.Run("recent error makes it unhealthy", func(t *testing.T) {
		svc, _, logs, _, in := setup(t)
		now := testEpoch.Add(2 * time.Hour)
		require.NoError(t, logs.AppendBatch(ctx, []integration.LogEntry{
			integration.NewLogEntry(in.ID, integration.LevelError, "ValidationError: Failed to complete execution", now.Add(-30*time.Minute)),
			integration.NewLogEntry(in.ID, integration.LevelError, "Execution failed in 3ms", now.Add(-30*time.Minute)),
		}))

		report, err := svc.Health(ctx, in.ID)
		require.NoError(t, err)
		assert.False(t, report.Healthy)
		assert.Equal(t, int64(2), report.RecentErrors)
	})

	t.Run("errors outside the window are ignored", func(t *testing.T) {
		svc, _, logs, _, in := setup(t)
		now := testEpoch.Add(2 * time.Hour)
		require.NoError(t, logs.AppendBatch(ctx, []integration.LogEntry{
			integration.NewLogEntry(in.ID, integration.LevelError, "old", now.Add(-61*time.Minute)),
			integration.NewLogEntry(in.ID, integration.LevelError, "boundary", now.Add(-HealthWindow)),
		}))

		report, err := svc.Health(ctx, in.ID)
		require.NoError(t, err)
		assert.True(t, report.Healthy)
		assert.Zero(t, report.RecentErrors)
	})

	t.Run("not deployed is unhealthy", func(t *testing.T) {
		svc, repo, _, _, in := setup(t)
		_, err := in.Stop(testEpoch)
		require.NoError(t, err)
		repo.put(in)

		report, err := svc.Health(ctx, in.ID)
		require.NoError(t, err)
		assert.False(t, report.Healthy)
		assert.Equal(t, integration.StatusStopped, report.Status)
	})

	t.Run("errors of other integrations do not count", func(t *testing.T) {
		svc, _, logs, _, in := setup(t)
		require.NoError(t, logs.AppendBatch(ctx, []integration.LogEntry{
			integration.NewLogEntry(uuid.New(), integration.LevelError, "elsewhere", testEpoch.Add(2*time.Hour)),
		}))

		report, err := svc.Health(ctx, in.ID)
		require.NoError(t, err)
		assert.True(t, report.Healthy)
	})

	t.Run("unknown integration", func(t *testing.T) {
		svc, _, _, _, _ := setup(t)
		_, err := svc.Health(ctx, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestMonitorService_Logs(t *testing.T) {
	ctx := context.Background()
	logs := &memLogs{}
	repo := newMemRepo(logs)
	in := newDeployedIntegration(repo, "Logs")
	svc := NewMonitorService(repo, logs, newFakeClock())

	var batch []integration.LogEntry
	for i := 0; i < 120; i++ {
		batch = append(batch, integration.NewLogEntry(in.ID, integration.LevelInfo,
			fmt.Sprintf("entry %d", i), testEpoch.Add(time.Duration(i/2)*time.Second)))
	}
	require.NoError(t, logs.AppendBatch(ctx, batch))

	t.Run("newest first with insertion order breaking ties", func(t *testing.T) {
		got, err := svc.Logs(ctx, in.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, []string{"entry 119", "entry 118", "entry 117", "entry 116"}, messages(got))
	})

	t.Run("limit is capped", func(t *testing.T) {
		got, err := svc.Logs(ctx, in.ID, 500)
		require.NoError(t, err)
		assert.Len(t, got, MaxLogLimit)
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		got, err := svc.Logs(ctx, in.ID, 0)
		require.NoError(t, err)
		assert.Len(t, got, DefaultLogLimit)
	})

	t.Run("unknown integration", func(t *testing.T) {
		_, err := svc.Logs(ctx, uuid.New(), 10)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
