package storage

import "time"

// Session lifecycle events
const (
	EventConnected    = "connected"
	EventRenamed      = "renamed"
	EventDisconnected = "disconnected"
)

// SessionEvent is one entry in the connection session history
type SessionEvent struct {
	ID       int64     `json:"id"`
	Identity string    `json:"identity"`
	Event    string    `json:"event"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// Store defines the interface for session history persistence
type Store interface {
	// RecordEvent appends one session event
	RecordEvent(event *SessionEvent) error
	// RecentEvents returns the most recent events, newest first
	RecentEvents(limit int) ([]*SessionEvent, error)
	// Close releases the underlying database
	Close() error
}
