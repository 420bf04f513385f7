package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotedesk/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and readiness probes
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		startedAt: time.Now(),
	}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"uptime":  time.Since(h.startedAt).String(),
		"time":    time.Now().UTC(),
	})
}

// Ready handles GET /ready; it fails while the database is unreachable
func (h *SystemHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}
	h.Success(c, gin.H{"status": "ready"})
}
