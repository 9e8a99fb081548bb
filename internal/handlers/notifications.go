package handlers

import (
	"net/http"

	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db                  *gorm.DB
	notificationService services.NotificationService
}

func NewNotificationHandler(db *gorm.DB, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{db: db, notificationService: notificationService}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.GetNotifications(h.db, userID)
	if err != nil {
		handleServiceError(c, err, "notification not found")
		return
	}

	respond(c, http.StatusOK, notifications, "")
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id := uuid.FromStringOrNil(c.Param("id"))
	notification, err := h.notificationService.MarkRead(h.db, userID, id)
	if err != nil {
		handleServiceError(c, err, "notification not found")
		return
	}

	respond(c, http.StatusOK, notification, "")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	affected, err := h.notificationService.MarkAllRead(h.db, userID)
	if err != nil {
		handleServiceError(c, err, "notification not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"marked_read": affected}, "")
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(h.db, userID)
	if err != nil {
		handleServiceError(c, err, "notification not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"count": count}, "")
}
