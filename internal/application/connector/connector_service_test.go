package connector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/connector"
	"github.com/openpoint/platform/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConnectorService(t *testing.T, repo connector.Repository) *ConnectorService {
	t.Helper()
	validator, err := connector.NewConfigValidator()
	require.NoError(t, err)
	return NewConnectorService(repo, &keyLocker{}, validator, fixedClock{testNow}, zap.NewNop())
}

func TestConnectorService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an inactive connector", func(t *testing.T) {
		repo := new(MockConnectorRepository)
		repo.On("Save", ctx, mock.AnythingOfType("*connector.Connector")).Return(nil)
		svc := newConnectorService(t, repo)

		resp, err := svc.Create(ctx, CreateConnectorRequest{
			Name:   "Orders API",
			Type:   "http",
			Config: map[string]any{"base_url": "https://api.example.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Orders API", resp.Name)
		assert.Equal(t, "http", resp.Type)
		assert.Equal(t, "inactive", resp.Status)
		assert.Nil(t, resp.LastTested)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		repo := new(MockConnectorRepository)
		svc := newConnectorService(t, repo)

		_, err := svc.Create(ctx, CreateConnectorRequest{Name: "x", Type: "mainframe", Config: map[string]any{}})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects config missing required fields", func(t *testing.T) {
		repo := new(MockConnectorRepository)
		svc := newConnectorService(t, repo)

		_, err := svc.Create(ctx, CreateConnectorRequest{Name: "SAP", Type: "sap", Config: map[string]any{"host": "sap"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Contains(t, err.Error(), "username")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestConnectorService_Update(t *testing.T) {
	ctx := context.Background()
	existing := newTestConnector(t, connector.TypeHTTP, map[string]any{"base_url": "https://old.example.com"})

	t.Run("applies non-empty fields", func(t *testing.T) {
		repo := new(MockConnectorRepository)
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)
		svc := newConnectorService(t, repo)

		name := "Renamed"
		empty := ""
		resp, err := svc.Update(ctx, existing.ID, UpdateConnectorRequest{Name: &name, Description: &empty})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Name)
		assert.Equal(t, "https://old.example.com", existing.ConfigString("base_url"))
	})

	t.Run("validates a replacement config", func(t *testing.T) {
		repo := new(MockConnectorRepository)
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		svc := newConnectorService(t, repo)

		_, err := svc.Update(ctx, existing.ID, UpdateConnectorRequest{Config: map[string]any{"auth_type": "None"}})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockConnectorRepository)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, connector.ErrNotFound)
		svc := newConnectorService(t, repo)

		_, err := svc.Update(ctx, id, UpdateConnectorRequest{})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestConnectorService_Delete(t *testing.T) {
	ctx := context.Background()
	existing := newTestConnector(t, connector.TypeKafka, nil)

	repo := new(MockConnectorRepository)
	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("Delete", ctx, existing.ID).Return(nil)
	svc := newConnectorService(t, repo)

	require.NoError(t, svc.Delete(ctx, existing.ID))
	repo.AssertExpectations(t)
}

func TestConnectorService_List(t *testing.T) {
	ctx := context.Background()
	a := newTestConnector(t, connector.TypeKafka, nil)
	b := newTestConnector(t, connector.TypeFTP, nil)

	repo := new(MockConnectorRepository)
	repo.On("FindAll", ctx).Return([]connector.Connector{*a, *b}, nil)
	svc := newConnectorService(t, repo)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, "ftp", got[1].Type)
}

func TestConnectorService_Types(t *testing.T) {
	svc := newConnectorService(t, new(MockConnectorRepository))

	types := svc.Types()
	require.Len(t, types, 10)
	assert.Equal(t, "sap", types[0].Type)
	assert.Equal(t, "SAP", types[0].Name)

	var host *ConnectorFieldResponse
	for i := range types[0].ConfigSchema {
		if types[0].ConfigSchema[i].Name == "host" {
			host = &types[0].ConfigSchema[i]
		}
	}
	require.NotNil(t, host)
	assert.True(t, host.Required)
	assert.Equal(t, "SAP Host", host.Label)
}

// pausingConnectorRepo blocks the first FindByID until resume is closed
type pausingConnectorRepo struct {
	*memConnectorRepo
	once    sync.Once
	reading chan struct{}
	resume  chan struct{}
}

func (r *pausingConnectorRepo) FindByID(ctx context.Context, id uuid.UUID) (*connector.Connector, error) {
	r.once.Do(func() {
		close(r.reading)
		<-r.resume
	})
	return r.memConnectorRepo.FindByID(ctx, id)
}

func TestConnectorService_UpdateDoesNotLoseConcurrentTest(t *testing.T) {
	ctx := context.Background()
	c := newTestConnector(t, connector.TypeDatabase, nil)
	repo := &pausingConnectorRepo{
		memConnectorRepo: newMemConnectorRepo(c),
		reading:          make(chan struct{}),
		resume:           make(chan struct{}),
	}
	locker := &keyLocker{}
	svc := newConnectorService(t, repo)
	svc.locker = locker
	tester := NewTestService(repo, &stubProber{result: ProbeResult{Success: true, Message: "Connection successful"}},
		locker, fixedClock{testNow}, nil, nil, zap.NewNop())

	name := "Renamed"
	updateErr := make(chan error, 1)
	go func() {
		_, err := svc.Update(ctx, c.ID, UpdateConnectorRequest{Name: &name})
		updateErr <- err
	}()
	<-repo.reading

	testErr := make(chan error, 1)
	go func() {
		_, err := tester.Test(ctx, c.ID)
		testErr <- err
	}()

	select {
	case <-testErr:
		t.Fatal("test ran while an update held the connector")
	case <-time.After(50 * time.Millisecond):
	}
	close(repo.resume)
	require.NoError(t, <-updateErr)
	require.NoError(t, <-testErr)

	stored, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, connector.StatusActive, stored.Status)
	require.NotNil(t, stored.LastTested)
	assert.Equal(t, testNow, *stored.LastTested)
	assert.Equal(t, []string{"connector:" + c.ID.String(), "connector:" + c.ID.String()}, locker.keys)
}
