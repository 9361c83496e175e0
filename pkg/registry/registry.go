package registry

import (
	"fmt"
	"sync"

	"stagecast/pkg/logger"
	"stagecast/pkg/storage"
)

// Registry is the authoritative map from client identity to connected client.
// It is constructed explicitly and passed by reference to the transport and
// to every subsystem that needs to broadcast; there is no package-level
// instance.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	order   []string // identities in insertion order
	store   storage.Store
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// SetStore wires the optional session history store. Lifecycle events are
// recorded best effort; store failures never affect the registry.
func (r *Registry) SetStore(store storage.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = store
}

// recordEvent appends a session history entry. Called outside the registry
// lock so a slow database cannot stall connection handling.
func (r *Registry) recordEvent(identity, event, detail string) {
	r.mu.RLock()
	store := r.store
	r.mu.RUnlock()
	if store == nil {
		return
	}
	err := store.RecordEvent(&storage.SessionEvent{
		Identity: identity,
		Event:    event,
		Detail:   detail,
	})
	if err != nil {
		logger.Get().WarnWith("failed to record session event", "identity", identity, "error", err)
	}
}

// Register inserts a client under its identity. A collision with an already
// registered identity is resolved last-write-wins: the existing client is
// closed and replaced.
func (r *Registry) Register(client *Client) {
	identity := client.Identity()

	r.mu.Lock()
	if existing, ok := r.clients[identity]; ok {
		logger.Get().WarnWith("identity already registered, replacing", "identity", identity)
		existing.Close()
		r.removeOrderLocked(identity)
	}
	r.clients[identity] = client
	r.order = append(r.order, identity)
	count := len(r.clients)
	r.mu.Unlock()

	logger.Get().InfoWith("client connected", "identity", identity, "connections", count)
	r.recordEvent(identity, storage.EventConnected, "")
}

// Unregister removes the client's entry. Idempotent: a second call, or a
// call from a connection that has already been replaced under its identity,
// is a no-op.
func (r *Registry) Unregister(client *Client) {
	identity := client.Identity()

	r.mu.Lock()
	current, ok := r.clients[identity]
	if !ok || current != client {
		// Already removed, or this identity now belongs to another connection
		r.mu.Unlock()
		return
	}
	delete(r.clients, identity)
	r.removeOrderLocked(identity)
	count := len(r.clients)
	r.mu.Unlock()

	client.Close()
	logger.Get().InfoWith("client disconnected", "identity", identity, "connections", count)
	r.recordEvent(identity, storage.EventDisconnected, "")
}

// Rename rebinds the client from its current identity to newIdentity,
// keeping its route and parameters. A collision with another connected
// client is resolved last-write-wins: the displaced client is closed so the
// key set keeps matching the set of open connections. Returns the client's
// identity after the attempted rename.
func (r *Registry) Rename(client *Client, newIdentity string) string {
	if newIdentity == "" {
		return client.Identity()
	}

	r.mu.Lock()

	oldIdentity := client.Identity()
	if current, ok := r.clients[oldIdentity]; !ok || current != client {
		// The connection lost its entry (disconnect raced the rename)
		r.mu.Unlock()
		return oldIdentity
	}
	if newIdentity == oldIdentity {
		r.mu.Unlock()
		return oldIdentity
	}

	if displaced, ok := r.clients[newIdentity]; ok {
		logger.Get().WarnWith("rename collision, replacing existing client", "identity", newIdentity)
		displaced.Close()
		r.removeOrderLocked(newIdentity)
	}

	delete(r.clients, oldIdentity)
	r.removeOrderLocked(oldIdentity)
	client.rename(newIdentity)
	r.clients[newIdentity] = client
	r.order = append(r.order, newIdentity)
	r.mu.Unlock()

	logger.Get().InfoWith("client renamed", "from", oldIdentity, "to", newIdentity)
	r.recordEvent(oldIdentity, storage.EventRenamed, newIdentity)
	return newIdentity
}

// SetURL updates the route of the client registered under identity
func (r *Registry) SetURL(identity, url string) {
	if client, ok := r.Get(identity); ok {
		client.setURL(url)
	}
}

// SetParameters updates the parameters of the client registered under identity
func (r *Registry) SetParameters(identity, parameters string) {
	if client, ok := r.Get(identity); ok {
		client.setParameters(parameters)
	}
}

// Get returns the client registered under identity
func (r *Registry) Get(identity string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[identity]
	return client, ok
}

// SendTo delivers a pre-serialized frame to one client by identity
func (r *Registry) SendTo(identity string, data []byte) error {
	client, ok := r.Get(identity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClientNotFound, identity)
	}
	return client.Send(data)
}

// Broadcast delivers a pre-serialized frame to every client present in a
// consistent snapshot taken at the moment of the call. Closed or stalled
// clients are skipped without failing the loop.
func (r *Registry) Broadcast(data []byte) {
	for _, client := range r.Clients() {
		if client.IsClosed() {
			continue
		}
		if err := client.Send(data); err != nil {
			logger.Get().DebugWith("broadcast skipped client", "identity", client.Identity(), "error", err)
		}
	}
}

// Clients returns a snapshot of all connected clients in insertion order
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.order))
	for _, identity := range r.order {
		if client, ok := r.clients[identity]; ok {
			clients = append(clients, client)
		}
	}
	return clients
}

// Snapshot returns the records of all connected clients in insertion order.
// Connection handles are never exposed.
func (r *Registry) Snapshot() []Record {
	clients := r.Clients()
	records := make([]Record, 0, len(clients))
	for _, client := range clients {
		records = append(records, client.Snapshot())
	}
	return records
}

// Len returns the number of connected clients
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// CloseAll closes every client and empties the registry
func (r *Registry) CloseAll() {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	r.clients = make(map[string]*Client)
	r.order = nil
	r.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}

// removeOrderLocked drops one identity from the insertion order index.
// Caller holds the write lock.
func (r *Registry) removeOrderLocked(identity string) {
	for i, id := range r.order {
		if id == identity {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
