package integration

import (
	"time"

	"github.com/google/uuid"
)

// LogLevel is the severity of a timeline entry
type LogLevel string

const (
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// IsValid returns true if the level is known
func (l LogLevel) IsValid() bool {
	switch l {
	case LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// LogEntry is one append-only event on an integration's timeline.
// ID is assigned by the store on insert and breaks timestamp ties.
type LogEntry struct {
	ID            int64
	IntegrationID uuid.UUID
	Level         LogLevel
	Message       string
	Timestamp     time.Time
}

// NewLogEntry creates an unsaved timeline entry
func NewLogEntry(integrationID uuid.UUID, level LogLevel, message string, ts time.Time) LogEntry {
	return LogEntry{
		IntegrationID: integrationID,
		Level:         level,
		Message:       message,
		Timestamp:     ts,
	}
}
