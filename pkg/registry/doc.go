// Package registry tracks every connected client and its mutable record.
//
// The Registry is the single source of truth for which clients are
// connected. It maps an identity string to a Client, which bundles the
// client's record (display name, last route, last parameters) with a
// non-owning reference to its websocket connection. All mutating
// operations (register, rename, field updates, unregister) are serialized
// behind one mutex so a rename racing a broadcast snapshot cannot corrupt
// the key space.
//
// Each Client owns a buffered outbound channel drained by a dedicated
// writer goroutine, so a slow or stalled client never blocks frame
// processing on other connections. A client whose buffer fills up is
// dropped rather than allowed to stall the rest.
package registry
