package handlers

import (
	"net/http"
	"time"

	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsHandler struct {
	db           *gorm.DB
	statsService services.StatsService
}

func NewStatsHandler(db *gorm.DB, statsService services.StatsService) *StatsHandler {
	return &StatsHandler{db: db, statsService: statsService}
}

func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetWeeklyStats(h.db, userID, time.Now())
	if err != nil {
		handleServiceError(c, err, "stats unavailable")
		return
	}

	respond(c, http.StatusOK, stats, "")
}
