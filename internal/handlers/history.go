package handlers

import (
	"net/http"
	"strconv"

	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type HistoryHandler struct {
	db             *gorm.DB
	historyService services.HistoryService
}

func NewHistoryHandler(db *gorm.DB, historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{db: db, historyService: historyService}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	entries, pagination, err := h.historyService.GetHistory(h.db, userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err, "history entry not found")
		return
	}

	respond(c, http.StatusOK, PageData{Items: entries, Pagination: pagination}, "")
}

func (h *HistoryHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.historyService.DeleteEntry(h.db, userID, id); err != nil {
		handleServiceError(c, err, "history entry not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"id": id}, "History entry deleted")
}
