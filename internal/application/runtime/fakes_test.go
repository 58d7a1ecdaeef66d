package runtime

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
	"github.com/openpoint/platform/internal/domain/shared"
)

var testEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// fakeClock returns a fixed instant, optionally advancing by step on each read
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// scriptedRandom replays queued values; once exhausted Float64 returns 0.99
// (no chaos) and IntN returns 0.
type scriptedRandom struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

func (r *scriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		panic("scripted IntN value out of range")
	}
	return v
}

type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *memLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type memLogs struct {
	mu        sync.Mutex
	nextID    int64
	entries   []integration.LogEntry
	appendErr error
}

func (m *memLogs) AppendBatch(_ context.Context, entries []integration.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(entries)
}

func (m *memLogs) appendLocked(entries []integration.LogEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	for _, e := range entries {
		m.nextID++
		e.ID = m.nextID
		m.entries = append(m.entries, e)
	}
	return nil
}

func (m *memLogs) FindRecent(_ context.Context, id uuid.UUID, limit int) ([]integration.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []integration.LogEntry
	for _, e := range m.entries {
		if e.IntegrationID == id {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memLogs) CountSince(_ context.Context, id uuid.UUID, level integration.LogLevel, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.entries {
		if e.IntegrationID == id && e.Level == level && e.Timestamp.After(since) {
			n++
		}
	}
	return n, nil
}

func (m *memLogs) forIntegration(id uuid.UUID) []integration.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []integration.LogEntry
	for _, e := range m.entries {
		if e.IntegrationID == id {
			out = append(out, e)
		}
	}
	return out
}

type memRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]integration.Integration
	order []uuid.UUID
	logs  *memLogs
	saves int
}

func newMemRepo(logs *memLogs) *memRepo {
	return &memRepo{items: make(map[uuid.UUID]integration.Integration), logs: logs}
}

func (r *memRepo) put(in *integration.Integration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeLocked(in)
}

func (r *memRepo) storeLocked(in *integration.Integration) {
	c := *in
	c.ClearDomainEvents()
	if _, ok := r.items[in.ID]; !ok {
		r.order = append(r.order, in.ID)
	}
	r.items[in.ID] = c
}

func (r *memRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.items[id]
	if !ok {
		return nil, integration.ErrNotFound
	}
	return &in, nil
}

func (r *memRepo) FindAll(_ context.Context) ([]integration.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]integration.Integration, 0, len(r.order))
	for _, id := range r.order {
		if in, ok := r.items[id]; ok {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *memRepo) Save(_ context.Context, in *integration.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.storeLocked(in)
	return nil
}

func (r *memRepo) SaveWithLogs(_ context.Context, in *integration.Integration, entries []integration.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs.mu.Lock()
	defer r.logs.mu.Unlock()
	if err := r.logs.appendLocked(entries); err != nil {
		return err
	}
	r.saves++
	r.storeLocked(in)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return integration.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type apiCall struct {
	integration string
	target      string
	verb        string
	status      int
}

type execution struct {
	integration string
	success     bool
	records     int
}

type recordingSink struct {
	mu         sync.Mutex
	executions []execution
	apiCalls   []apiCall
	errs       []string
	statuses   map[string]integration.Status
	cleared    []string
	active     int
	panics     bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{statuses: make(map[string]integration.Status), active: -1}
}

func (s *recordingSink) RecordExecution(_ context.Context, name string, success bool, _ time.Duration, records int) {
	if s.panics {
		panic("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions = append(s.executions, execution{name, success, records})
}

func (s *recordingSink) RecordAPICall(_ context.Context, name, target, verb string, status int, _ time.Duration) {
	if s.panics {
		panic("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiCalls = append(s.apiCalls, apiCall{name, target, verb, status})
}

func (s *recordingSink) RecordError(_ context.Context, name, kind string) {
	if s.panics {
		panic("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, name+":"+kind)
}

func (s *recordingSink) SetIntegrationStatus(_ context.Context, name string, status integration.Status) {
	if s.panics {
		panic("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[name] = status
}

func (s *recordingSink) ClearIntegrationStatus(_ context.Context, name string) {
	if s.panics {
		panic("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, name)
	s.cleared = append(s.cleared, name)
}

func (s *recordingSink) SetActiveIntegrations(_ context.Context, count int) {
	if s.panics {
		panic("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = count
}

// stubFetcher answers per URL; unknown URLs are unreachable
type stubFetcher struct {
	mu      sync.Mutex
	results map[string]FetchResult
	calls   []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (FetchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	res, ok := f.results[url]
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return FetchResult{}, err
	}
	if !ok {
		return FetchResult{}, errors.New("dial tcp: connection refused")
	}
	return res, nil
}

var testSources = []Source{
	{Target: "erp-service", Label: "ERP service", Resource: "orders", URL: "http://erp.test/orders"},
	{Target: "crm-service", Label: "CRM service", Resource: "customers", URL: "http://crm.test/customers"},
}

func newDeployedIntegration(repo *memRepo, name string) *integration.Integration {
	in, err := integration.NewIntegration(name, "", "", nil)
	if err != nil {
		panic(err)
	}
	in.Deploy(testEpoch)
	repo.put(in)
	return in
}

type publisherFunc func(ctx context.Context) error

func (f publisherFunc) Publish(ctx context.Context, _ ...shared.DomainEvent) error {
	return f(ctx)
}
