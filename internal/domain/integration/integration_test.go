package integration

import (
	"errors"
	"testing"
	"time"

	"github.com/openpoint/platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIntegration(t *testing.T) *Integration {
	t.Helper()
	in, err := NewIntegration("SAP to Salesforce Sync", "desc", "flow: {}", nil)
	require.NoError(t, err)
	in.ClearDomainEvents()
	return in
}

func TestNewIntegration(t *testing.T) {
	t.Run("creates draft integration", func(t *testing.T) {
		in, err := NewIntegration("  Order Pipeline ", "", "", nil)
		require.NoError(t, err)

		assert.Equal(t, "Order Pipeline", in.Name)
		assert.Equal(t, StatusDraft, in.Status)
		assert.NotEmpty(t, in.ID)

		events := in.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeIntegrationCreated, events[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewIntegration("   ", "", "", nil)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestIntegration_Deploy(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, from := range []Status{StatusDraft, StatusDeployed, StatusStopped, StatusError} {
		t.Run("from "+from.String(), func(t *testing.T) {
			in := newTestIntegration(t)
			in.Status = from

			entries := in.Deploy(now)

			assert.Equal(t, StatusDeployed, in.Status)
			assert.Equal(t, now, in.UpdatedAt)
			require.Len(t, entries, 2)
			assert.Equal(t, "Integration started", entries[0].Message)
			assert.Equal(t, "Route started and listening for events", entries[1].Message)
			for _, e := range entries {
				assert.Equal(t, LevelInfo, e.Level)
				assert.Equal(t, in.ID, e.IntegrationID)
			}

			events := in.GetDomainEvents()
			require.Len(t, events, 1)
			changed := events[0].(*IntegrationStatusChangedEvent)
			assert.Equal(t, from, changed.OldStatus)
			assert.Equal(t, StatusDeployed, changed.NewStatus)
		})
	}
}

func TestIntegration_Start(t *testing.T) {
	in := newTestIntegration(t)
	in.Status = StatusStopped

	entries := in.Start(time.Now())

	assert.Equal(t, StatusDeployed, in.Status)
	require.Len(t, entries, 4)
	assert.Equal(t, "Integration started", entries[0].Message)
	assert.Equal(t, "Loading flow configuration for 'SAP to Salesforce Sync'", entries[1].Message)
	assert.Equal(t, "Route started and listening for events", entries[3].Message)
}

func TestIntegration_Stop(t *testing.T) {
	now := time.Now().UTC()

	t.Run("stops deployed integration", func(t *testing.T) {
		in := newTestIntegration(t)
		in.Deploy(now)

		entries, err := in.Stop(now)
		require.NoError(t, err)
		assert.Equal(t, StatusStopped, in.Status)
		require.Len(t, entries, 3)
		assert.Equal(t, "Graceful shutdown initiated", entries[0].Message)
		assert.Equal(t, "Route stopped", entries[1].Message)
		assert.Equal(t, "Integration stopped", entries[2].Message)
	})

	for _, from := range []Status{StatusDraft, StatusStopped, StatusError} {
		t.Run("rejects "+from.String(), func(t *testing.T) {
			in := newTestIntegration(t)
			in.Status = from

			entries, err := in.Stop(now)
			assert.True(t, errors.Is(err, shared.ErrInvalidState))
			assert.Nil(t, entries)
			assert.Equal(t, from, in.Status)
			assert.Empty(t, in.GetDomainEvents())
		})
	}
}

func TestIntegration_SetStatus(t *testing.T) {
	in := newTestIntegration(t)

	require.NoError(t, in.SetStatus(StatusError, time.Now()))
	assert.Equal(t, StatusError, in.Status)

	err := in.SetStatus(Status("paused"), time.Now())
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	assert.Equal(t, StatusError, in.Status)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Deployed ")
	require.NoError(t, err)
	assert.Equal(t, StatusDeployed, s)

	_, err = ParseStatus("running")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestStatus_GaugeValue(t *testing.T) {
	assert.Equal(t, int64(0), StatusDraft.GaugeValue())
	assert.Equal(t, int64(1), StatusDeployed.GaugeValue())
	assert.Equal(t, int64(2), StatusStopped.GaugeValue())
	assert.Equal(t, int64(3), StatusError.GaugeValue())
}
