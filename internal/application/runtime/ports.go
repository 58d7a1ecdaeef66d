package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
)

// ErrCollaboratorUnavailable marks a primary-path call that could not
// produce a usable record list. It never reaches callers of Execute.
var ErrCollaboratorUnavailable = errors.New("runtime: collaborator unavailable")

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// Random is the randomness source used for simulation and chaos
type Random interface {
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
	// IntN returns a value in [0, n)
	IntN(n int) int
}

// Locker serialises work on a single entity key. The returned function
// releases the lock and must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// FetchResult is what the engine needs from a collaborator response
type FetchResult struct {
	StatusCode int
	Records    int
}

// Fetcher performs one GET against a collaborator returning a JSON list.
// Implementations return an error wrapping ErrCollaboratorUnavailable for
// transport failures, non-2xx responses and bodies that are not a list.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// MetricsSink receives operational metrics. Implementations must not block.
type MetricsSink interface {
	RecordExecution(ctx context.Context, integrationName string, success bool, duration time.Duration, records int)
	RecordAPICall(ctx context.Context, integrationName, target, verb string, statusCode int, duration time.Duration)
	RecordError(ctx context.Context, integrationName, kind string)
	SetIntegrationStatus(ctx context.Context, integrationName string, status integration.Status)
	// ClearIntegrationStatus marks the status series of a name that no
	// longer belongs to any integration
	ClearIntegrationStatus(ctx context.Context, integrationName string)
	SetActiveIntegrations(ctx context.Context, count int)
}

// Source is one collaborator endpoint on the primary path
type Source struct {
	Target   string // metric label, e.g. "erp-service"
	Label    string // human name used on the timeline, e.g. "ERP service"
	Resource string // plural record noun, e.g. "orders"
	URL      string
}

func lockKey(kind, id string) string {
	return kind + ":" + id
}

// IntegrationLockKey is the Locker key that serialises writes to one integration
func IntegrationLockKey(id uuid.UUID) string {
	return lockKey("integration", id.String())
}

// ConnectorLockKey is the Locker key that serialises writes to one connector
func ConnectorLockKey(id uuid.UUID) string {
	return lockKey("connector", id.String())
}
