// Package server composes the relay: the HTTP router the websocket
// transport is mounted on, the connection lifecycle, and the programmatic
// broadcast surface used by the rest of the process.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stagecast/pkg/config"
	"stagecast/pkg/dispatch"
	"stagecast/pkg/eventstore"
	"stagecast/pkg/health"
	"stagecast/pkg/logger"
	"stagecast/pkg/protocol"
	"stagecast/pkg/registry"
	"stagecast/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Version is the server version reported by the info endpoint
const Version = "1.0.0"

// Server represents the relay server
type Server struct {
	cfg        *config.ServerConfig
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	events     *eventstore.Store
	store      storage.Store
	monitor    *health.Monitor
	upgrader   websocket.Upgrader
	engine     *gin.Engine
	httpServer *http.Server
}

// New creates a relay server wired to an external command processor. The
// processor may be nil; unknown command types are then dropped.
func New(cfg *config.ServerConfig, processor dispatch.Processor) *Server {
	reg := registry.New()

	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		logger.Get().WarnWith("session history disabled", "error", err)
		store = nil
	}
	if store != nil {
		reg.SetStore(store)
	}

	s := &Server{
		cfg:        cfg,
		registry:   reg,
		dispatcher: dispatch.New(reg, processor),
		events:     eventstore.New(),
		store:      store,
		monitor:    health.NewMonitor(Version),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				// Displays connect from arbitrary origins on the local network
				return true
			},
		},
	}
	s.events.SetPublisher(s)
	s.engine = s.buildRouter()
	return s
}

// buildRouter assembles the gin engine with the websocket mount and the
// REST surface
func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/ws", s.ginHandleWebSocket)

	ontime := engine.Group("/ontime")
	{
		ontime.GET("/clients", s.handleClientList)
		ontime.GET("/info", s.handleInfo)
		ontime.GET("/session-log", s.handleSessionLog)
		ontime.POST("/broadcast", s.handleBroadcast)
	}

	return engine
}

// Events returns the shared application state store
func (s *Server) Events() *eventstore.Store {
	return s.events
}

// Registry returns the client registry
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Handler exposes the router, primarily for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Broadcast serializes message once and delivers it to every connected
// client. Delivery order across clients is unspecified; per client it is
// FIFO with respect to the caller's calls.
func (s *Server) Broadcast(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	s.registry.Broadcast(data)
	return nil
}

// SendTo serializes message and delivers it to the named client. Returns an
// error wrapping registry.ErrClientNotFound when the identity is not
// registered.
func (s *Server) SendTo(identity string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.registry.SendTo(identity, data)
}

// ListClients returns a snapshot of all connected clients in insertion order
func (s *Server) ListClients() []registry.Record {
	return s.registry.Snapshot()
}

// PublishState pushes a state snapshot to every client, wrapped in the
// standard state frame. Implements eventstore.Publisher.
func (s *Server) PublishState(snapshot map[string]interface{}) {
	msg, err := protocol.NewMessage(protocol.TypeOntime, snapshot)
	if err != nil {
		logger.Get().ErrorWithErr("failed to encode state snapshot", err)
		return
	}
	data, err := msg.Encode()
	if err != nil {
		logger.Get().ErrorWithErr("failed to encode state frame", err)
		return
	}
	s.registry.Broadcast(data)
}

// Start runs the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Get().InfoWith("server listening", "address", s.cfg.Address)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown closes the transport and releases all connections
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.registry.CloseAll()
	if s.store != nil {
		if cerr := s.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	logger.Get().InfoWith("server stopped")
	return err
}
