// Package storage persists the connection session history.
//
// The registry itself is purely in-memory; storage only records lifecycle
// events (connect, rename, disconnect) so operators can audit which
// displays were connected when. Two backends are provided behind the Store
// interface, selected by configuration: SQLite (default) and MySQL.
package storage
