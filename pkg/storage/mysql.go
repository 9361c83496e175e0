package storage

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore implements Store using a MySQL backend
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed store from a DSN. The DSN must
// include parseTime=true so event timestamps scan into time.Time.
func NewMySQLStore(dsn string) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := &MySQLStore{db: db}
	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// initDB initializes the database schema
func (s *MySQLStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_events (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		identity VARCHAR(255) NOT NULL,
		event VARCHAR(32) NOT NULL,
		detail TEXT,
		at DATETIME NOT NULL,
		INDEX idx_session_events_at (at),
		INDEX idx_session_events_identity (identity)
	)`
	_, err := s.db.Exec(schema)
	return err
}

// RecordEvent appends one session event
func (s *MySQLStore) RecordEvent(event *SessionEvent) error {
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
func (s *MySQLStore) RecentEvents(limit int) ([]*SessionEvent, error) {
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
