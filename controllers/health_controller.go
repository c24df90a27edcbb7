package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/mentorship-backend/config"
	"github.com/vnkhanh/mentorship-backend/services"
)

// StatsProvider reports live connection counters.
type StatsProvider interface {
	GetStats() map[string]int
}

type HealthController struct {
	health *services.HealthService
	cfg    *config.Config
	ws     StatsProvider
	now    func() time.Time
}

func NewHealthController(health *services.HealthService, cfg *config.Config, ws StatsProvider, now func() time.Time) *HealthController {
	if now == nil {
		now = time.Now
	}
	return &HealthController{health: health, cfg: cfg, ws: ws, now: now}
}

// HealthCheck reports database connectivity, per table counts and which
// environment variables are set.
func (h *HealthController) HealthCheck(c *gin.Context) {
	report := h.health.Check(c.Request.Context())
	timestamp := h.now().UTC().Format(time.RFC3339)

	if !report.Connected {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"message":   "could not connect to the database",
			"error":     report.Error,
			"timestamp": timestamp,
		})
		return
	}

	response := gin.H{
		"status":  "ok",
		"message": "service is healthy",
		"database": gin.H{
			"connected": true,
			"tables":    report.Tables,
		},
		"environment": h.cfg.EnvironmentStatus(),
		"timestamp":   timestamp,
	}
	if h.ws != nil {
		response["websocket"] = h.ws.GetStats()
	}

	status := http.StatusOK
	if !report.Healthy() {
		response["status"] = "degraded"
		response["message"] = "some tables could not be read"
		status = http.StatusInternalServerError
	}
	c.JSON(status, response)
}

// Diagnostics checks the schema of every table and suggests fixes.
func (h *HealthController) Diagnostics(c *gin.Context) {
	d := h.health.Diagnose(c.Request.Context())

	status, code := "healthy", http.StatusOK
	if !d.Healthy() {
		status, code = "unhealthy", http.StatusInternalServerError
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"config": gin.H{
			"url":         h.cfg.SupabaseURL,
			"has_key":     h.cfg.SupabaseAnonKey != "",
			"environment": h.cfg.Env,
		},
		"connection":      d.Connection,
		"structure":       d.Structure,
		"stats":           d.Stats,
		"recommendations": d.Recommendations,
	})
}
