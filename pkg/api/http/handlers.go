package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RamadanElSayed/coflow/internal/model"
)

// SubmitResponse represents an intent submission response
type SubmitResponse struct {
	Intent      string `json:"intent"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"checks": gin.H{
			"orchestrator": "ok",
		},
	})
}

// handleListIntents lists every intent the orchestrator accepts
func (s *Server) handleListIntents(c *gin.Context) {
	names := make([]string, 0, len(model.Intents))
	for _, intent := range model.Intents {
		names = append(names, intent.String())
	}
	c.JSON(http.StatusOK, gin.H{
		"intents": names,
		"total":   len(names),
	})
}

// handleSubmitIntent dispatches an intent to the orchestrator. Submission is
// fire-and-forget: the outcome surfaces on the state and event channels, so
// the response only acknowledges acceptance.
func (s *Server) handleSubmitIntent(c *gin.Context) {
	name := c.Param("intent")

	intent, err := model.ParseIntent(name)
	if err != nil {
		s.logger.Warn("rejected unknown intent", zap.String("intent", name))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "UNKNOWN_INTENT",
				Message: err.Error(),
			},
		})
		return
	}

	s.orchestrator.Submit(intent)

	c.JSON(http.StatusAccepted, SubmitResponse{
		Intent:      intent.String(),
		Status:      "accepted",
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleGetState returns the current UI state snapshot
func (s *Server) handleGetState(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.Snapshot())
}

// handleGetHistory returns the recent state snapshots, oldest first
func (s *Server) handleGetHistory(c *gin.Context) {
	entries := s.history.Snapshots()
	c.JSON(http.StatusOK, gin.H{
		"snapshots": entries,
		"total":     len(entries),
	})
}
