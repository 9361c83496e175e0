package registry

import "errors"

var (
	// ErrClientNotFound is returned when a targeted identity is not registered
	ErrClientNotFound = errors.New("client not found")

	// ErrClientClosed is returned when sending to a closed client
	ErrClientClosed = errors.New("client closed")

	// ErrSendBufferFull is returned when a client's outbound buffer overflows
	ErrSendBufferFull = errors.New("send buffer full")
)
