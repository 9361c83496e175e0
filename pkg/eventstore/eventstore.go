// Package eventstore holds the shared application state that connected
// clients are kept synchronized with.
package eventstore

import "sync"

// Publisher receives the full state snapshot after every mutation and is
// responsible for fanning it out to connected clients.
type Publisher interface {
	PublishState(snapshot map[string]interface{})
}

// Store is the authoritative in-memory application state. Poll returns the
// current snapshot; Set mutates one key and pushes the resulting snapshot
// through the publisher.
type Store struct {
	mu        sync.RWMutex
	state     map[string]interface{}
	publisher Publisher
}

// New creates an empty store
func New() *Store {
	return &Store{
		state: make(map[string]interface{}),
	}
}

// SetPublisher wires the broadcast sink. Must be called before Set if
// mutations should reach clients; Poll works without one.
func (s *Store) SetPublisher(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

// Poll returns a snapshot of the current state
func (s *Store) Poll() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Set updates one key and publishes the new snapshot
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	s.state[key] = value
	snapshot := s.snapshotLocked()
	publisher := s.publisher
	s.mu.Unlock()

	if publisher != nil {
		publisher.PublishState(snapshot)
	}
}

// snapshotLocked copies the state map. Caller holds at least a read lock.
func (s *Store) snapshotLocked() map[string]interface{} {
	snapshot := make(map[string]interface{}, len(s.state))
	for k, v := range s.state {
		snapshot[k] = v
	}
	return snapshot
}
