package connector

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/connector"
	"github.com/openpoint/platform/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockConnectorRepository is a mock implementation of connector.Repository
type MockConnectorRepository struct {
	mock.Mock
}

func (m *MockConnectorRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Connector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connector.Connector), args.Error(1)
}

func (m *MockConnectorRepository) FindAll(ctx context.Context) ([]connector.Connector, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]connector.Connector), args.Error(1)
}

func (m *MockConnectorRepository) Save(ctx context.Context, c *connector.Connector) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConnectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type memConnectorRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]connector.Connector
	saves int
}

func newMemConnectorRepo(cs ...*connector.Connector) *memConnectorRepo {
	r := &memConnectorRepo{items: make(map[uuid.UUID]connector.Connector)}
	for _, c := range cs {
		cp := *c
		cp.ClearDomainEvents()
		r.items[c.ID] = cp
	}
	return r
}

func (r *memConnectorRepo) FindByID(_ context.Context, id uuid.UUID) (*connector.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, connector.ErrNotFound
	}
	return &c, nil
}

func (r *memConnectorRepo) FindAll(_ context.Context) ([]connector.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]connector.Connector, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *memConnectorRepo) Save(_ context.Context, c *connector.Connector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.ClearDomainEvents()
	r.items[c.ID] = cp
	r.saves++
	return nil
}

func (r *memConnectorRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type stubProber struct {
	result ProbeResult
	calls  int
}

func (p *stubProber) Probe(context.Context, *connector.Connector) ProbeResult {
	p.calls++
	return p.result
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type keyLocker struct {
	mu   sync.Mutex
	keys []string
}

func (l *keyLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	return l.mu.Unlock, nil
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type testMetric struct {
	typ     string
	success bool
}

type captureMetrics struct {
	tests []testMetric
}

func (m *captureMetrics) RecordConnectorTest(_ context.Context, typ string, success bool, _ time.Duration) {
	m.tests = append(m.tests, testMetric{typ, success})
}
