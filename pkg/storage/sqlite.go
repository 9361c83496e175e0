package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using an SQLite backend
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store
func NewSQLiteStore(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// initDB initializes the database schema
func (s *SQLiteStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		identity TEXT NOT NULL,
		event TEXT NOT NULL,
		detail TEXT,
		at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_events_at ON session_events(at DESC);
	CREATE INDEX IF NOT EXISTS idx_session_events_identity ON session_events(identity);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordEvent appends one session event
func (s *SQLiteStore) RecordEvent(event *SessionEvent) error {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO session_events (identity, event, detail, at) VALUES (?, ?, ?, ?)`,
		event.Identity, event.Event, event.Detail, at,
	)
	return err
}

// RecentEvents returns the most recent events, newest first
func (s *SQLiteStore) RecentEvents(limit int) ([]*SessionEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, identity, event, detail, at FROM session_events ORDER BY at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*SessionEvent
	for rows.Next() {
		var ev SessionEvent
		var detail sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Identity, &ev.Event, &detail, &ev.At); err != nil {
			return nil, err
		}
		ev.Detail = detail.String
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// Close releases the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
