package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/connector"
	"github.com/openpoint/platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestTestService_Test(t *testing.T) {
	ctx := context.Background()

	t.Run("success activates the connector", func(t *testing.T) {
		c := newTestConnector(t, connector.TypeDatabase, nil)
		repo := newMemConnectorRepo(c)
		pub := &capturePublisher{}
		metrics := &captureMetrics{}
		locker := &keyLocker{}
		svc := NewTestService(repo, &stubProber{result: ProbeResult{Success: true, Message: "Connection successful"}},
			locker, fixedClock{testNow}, pub, metrics, zap.NewNop())

		resp, err := svc.Test(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "Connection successful", resp.Message)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, testNow, resp.LastTested)

		stored, _ := repo.FindByID(ctx, c.ID)
		assert.Equal(t, connector.StatusActive, stored.Status)
		require.NotNil(t, stored.LastTested)
		assert.Equal(t, testNow, *stored.LastTested)

		require.Len(t, pub.events, 1)
		assert.Equal(t, connector.EventTypeConnectorTested, pub.events[0].EventType())
		assert.Equal(t, []testMetric{{"database", true}}, metrics.tests)
		assert.Equal(t, []string{"connector:" + c.ID.String()}, locker.keys)
	})

	t.Run("failure moves the connector to error", func(t *testing.T) {
		c := newTestConnector(t, connector.TypeSAP, nil)
		repo := newMemConnectorRepo(c)
		svc := NewTestService(repo, &stubProber{result: ProbeResult{Message: "Missing required configuration"}},
			&keyLocker{}, fixedClock{testNow}, nil, nil, zap.NewNop())

		resp, err := svc.Test(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "Missing required configuration", resp.Message)
	})

	t.Run("error recovers to active", func(t *testing.T) {
		c := newTestConnector(t, connector.TypeKafka, nil)
		c.RecordTest(false, "down", testNow.Add(-time.Hour))
		repo := newMemConnectorRepo(c)
		svc := NewTestService(repo, &stubProber{result: ProbeResult{Success: true, Message: "Connection test passed"}},
			&keyLocker{}, fixedClock{testNow}, nil, nil, zap.NewNop())

		resp, err := svc.Test(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("last tested strictly increases on a frozen clock", func(t *testing.T) {
		c := newTestConnector(t, connector.TypeEmail, nil)
		repo := newMemConnectorRepo(c)
		svc := NewTestService(repo, &stubProber{result: ProbeResult{Success: true}},
			&keyLocker{}, fixedClock{testNow}, nil, nil, zap.NewNop())

		first, err := svc.Test(ctx, c.ID)
		require.NoError(t, err)
		second, err := svc.Test(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, second.LastTested.After(first.LastTested))
		assert.Contains(t, []string{"active", "error"}, second.Status)
	})

	t.Run("unknown connector", func(t *testing.T) {
		prober := &stubProber{}
		svc := NewTestService(newMemConnectorRepo(), prober, &keyLocker{}, fixedClock{testNow}, nil, nil, zap.NewNop())

		_, err := svc.Test(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Zero(t, prober.calls)
	})

	t.Run("real prober against a simulated type", func(t *testing.T) {
		c := newTestConnector(t, connector.TypeFTP, nil)
		repo := newMemConnectorRepo(c)
		svc := NewTestService(repo, fastProber(), &keyLocker{}, fixedClock{testNow}, nil, nil, zap.NewNop())

		resp, err := svc.Test(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Connection test passed", resp.Message)
		assert.Equal(t, 1, repo.saves)
	})
}
