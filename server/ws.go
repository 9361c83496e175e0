package server

import (
	"errors"
	"net/http"
	"time"

	"stagecast/pkg/dispatch"
	"stagecast/pkg/logger"
	"stagecast/pkg/namegen"
	"stagecast/pkg/protocol"
	"stagecast/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (s *Server) ginHandleWebSocket(c *gin.Context) {
	s.handleWebSocket(c.Writer, c.Request)
}

// handleWebSocket accepts a connection, binds a fresh identity to it, sends
// the connect handshake and hands the read loop to its own goroutine
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().WarnWith("websocket upgrade failed", "error", err)
		return
	}

	identity := namegen.Generate()
	pingInterval := time.Duration(s.cfg.WebSocket.PingInterval) * time.Second
	client := registry.NewClient(identity, conn, s.cfg.WebSocket.SendBufferSize, pingInterval)
	s.registry.Register(client)

	// Connect handshake, in order: current state snapshot, then the
	// assigned identity
	s.sendMessage(client, protocol.TypeOntime, s.events.Poll())
	s.sendMessage(client, protocol.TypeClientName, identity)

	go s.readPump(client, conn)
}

// readPump processes inbound frames for one connection, strictly in order.
// Any exit path unregisters the client, so a transport error is
// indistinguishable from a clean disconnect.
func (s *Server) readPump(client *registry.Client, conn *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().ErrorWith("panic recovered in read pump", "identity", client.Identity(), "panic", r)
		}
		s.registry.Unregister(client)
	}()

	readWait := 3 * time.Duration(s.cfg.WebSocket.PingInterval) * time.Second
	// The dispatcher enforces the protocol limit; the transport limit is a
	// backstop one byte above it so the deliberate close path is taken
	conn.SetReadLimit(s.cfg.WebSocket.ReadLimit + 1)
	conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Get().DebugWith("websocket read error", "identity", client.Identity(), "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readWait))

		if err := s.dispatcher.HandleFrame(client, data); err != nil {
			if errors.Is(err, dispatch.ErrFrameTooLarge) {
				logger.Get().WarnWith("closing connection, frame too large",
					"identity", client.Identity(), "bytes", len(data))
			}
			return
		}
	}
}

// sendMessage serializes and enqueues one frame for a client
func (s *Server) sendMessage(client *registry.Client, msgType protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		logger.Get().ErrorWithErr("failed to encode message", err, "type", string(msgType))
		return
	}
	data, err := msg.Encode()
	if err != nil {
		logger.Get().ErrorWithErr("failed to encode frame", err, "type", string(msgType))
		return
	}
	if err := client.Send(data); err != nil {
		logger.Get().DebugWith("frame dropped", "identity", client.Identity(), "error", err)
	}
}
