package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openpoint/platform/internal/domain/integration"
)

// timeline accumulates the entries of one run. Entries are placed at an
// offset from the run start but never before the previous entry.
type timeline struct {
	integrationID uuid.UUID
	start         time.Time
	last          time.Time
	entries       []integration.LogEntry
}

func newTimeline(integrationID uuid.UUID, start time.Time) *timeline {
	return &timeline{integrationID: integrationID, start: start, last: start}
}

func (t *timeline) at(offset time.Duration, level integration.LogLevel, message string) {
	ts := t.start.Add(offset)
	if ts.Before(t.last) {
		ts = t.last
	}
	t.last = ts
	t.entries = append(t.entries, integration.NewLogEntry(t.integrationID, level, message, ts))
}

// fork returns a scratch timeline continuing from t; its entries are kept
// only if merged back.
func (t *timeline) fork() *timeline {
	return &timeline{integrationID: t.integrationID, start: t.start, last: t.last}
}

func (t *timeline) merge(other *timeline) {
	t.entries = append(t.entries, other.entries...)
	if other.last.After(t.last) {
		t.last = other.last
	}
}

func (t *timeline) len() int {
	return len(t.entries)
}

// timelineStart returns where a new batch of entries for an integration
// begins: now, or the newest stored entry when that lies later. Callers hold
// the integration lock so the batch sorts after everything already stored.
func timelineStart(ctx context.Context, logs integration.LogRepository, id uuid.UUID, now time.Time) (time.Time, error) {
	latest, err := logs.FindRecent(ctx, id, 1)
	if err != nil {
		return time.Time{}, err
	}
	if len(latest) > 0 && latest[0].Timestamp.After(now) {
		return latest[0].Timestamp, nil
	}
	return now, nil
}
