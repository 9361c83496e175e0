package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the subset of a websocket connection the registry needs. The
// registry references the connection for writes and close only; reads stay
// with the transport layer that owns it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Record holds the mutable per-client metadata shown in the client list
type Record struct {
	Identity   string `json:"identity"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Parameters string `json:"parameters"`
}

// Client represents one connected client
type Client struct {
	mu       sync.RWMutex
	identity string
	record   Record
	conn     Conn
	send     chan []byte
	closed   bool
	done     chan struct{}
}

// NewClient creates a client for a freshly accepted connection. The display
// name defaults to the identity. pingInterval controls the keepalive pings
// issued by the writer goroutine.
func NewClient(identity string, conn Conn, sendBuffer int, pingInterval time.Duration) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	c := &Client{
		identity: identity,
		record: Record{
			Identity: identity,
			Name:     identity,
		},
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	go c.writeLoop(pingInterval)
	return c
}

// Identity returns the client's current identity
func (c *Client) Identity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Snapshot returns a copy of the client's record
func (c *Client) Snapshot() Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.record
}

// Send enqueues a pre-serialized frame for delivery. Frames enqueued by the
// same caller are delivered in order. Never blocks: a full buffer is an
// error, not a stall.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrClientClosed, c.identity)
	}
	send := c.send
	c.mu.RUnlock()

	select {
	case send <- data:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrSendBufferFull, c.Identity())
	}
}

// Close shuts down the writer and closes the connection. Safe to call more
// than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsClosed checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// writeLoop drains the send channel onto the connection. Write errors close
// the client; the read side observes the closed connection and unregisters.
func (c *Client) writeLoop(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.mu.RLock()
			conn := c.conn
			closed := c.closed
			c.mu.RUnlock()
			if closed || conn == nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			closed := c.closed
			c.mu.RUnlock()
			if closed || conn == nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// rename rebinds the client's identity and display name. Called with the
// registry lock held.
func (c *Client) rename(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
	c.record.Identity = identity
	c.record.Name = identity
}

// setURL updates the record's last-known route
func (c *Client) setURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record.URL = url
}

// setParameters updates the record's last-set parameters payload
func (c *Client) setParameters(parameters string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record.Parameters = parameters
}
