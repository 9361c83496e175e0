package server

import (
	"net/http"
	"strconv"

	"stagecast/pkg/logger"

	"github.com/gin-gonic/gin"
)

// handleClientList returns the connected clients, in connection order. This
// is the endpoint the client-list UI polls.
func (s *Server) handleClientList(c *gin.Context) {
	c.JSON(http.StatusOK, s.ListClients())
}

// handleInfo returns server runtime information
func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetInfo(s.registry.Len()))
}

// handleSessionLog returns the most recent connection session events
func (s *Server) handleSessionLog(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session history disabled"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	events, err := s.store.RecentEvents(limit)
	if err != nil {
		logger.Get().ErrorWithErr("failed to read session history", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session history"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// handleBroadcast lets sibling subsystems push an arbitrary frame to every
// connected client
func (s *Server) handleBroadcast(c *gin.Context) {
	var message map[string]interface{}
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message"})
		return
	}
	if err := s.Broadcast(message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivered": s.registry.Len()})
}
