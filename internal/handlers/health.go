package handlers

import (
	"net/http"

	"taskify/internal/monitoring"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	checker *monitoring.HealthChecker
}

func NewHealthHandler(checker *monitoring.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Health(c *gin.Context) {
	healthy, checks := h.checker.Run(c.Request.Context())

	if !healthy {
		message := "one or more dependencies are unhealthy"
		c.JSON(http.StatusServiceUnavailable, Envelope{
			Data:  gin.H{"status": "degraded", "checks": checks},
			Error: &message,
		})
		return
	}

	respond(c, http.StatusOK, gin.H{
		"status": "ok",
		"checks": checks,
	}, "")
}

func (h *HealthHandler) Metrics(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"requests": monitoring.GetMetrics(),
		"system":   monitoring.GetSystemMetrics(),
	}, "")
}
