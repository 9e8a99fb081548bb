package services

import (
	"fmt"
	"time"

	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type NotificationService interface {
	GetNotifications(db *gorm.DB, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(db *gorm.DB, userID, id uuid.UUID) (models.Notification, error)
	MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error)
	UnreadCount(db *gorm.DB, userID uuid.UUID) (int64, error)
	CreateDueSoonNotifications(db *gorm.DB, now time.Time, window time.Duration) (int, error)
}

type NotificationServiceImpl struct{}

func NewNotificationService() *NotificationServiceImpl {
	return &NotificationServiceImpl{}
}

func (s *NotificationServiceImpl) GetNotifications(db *gorm.DB, userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationServiceImpl) MarkRead(db *gorm.DB, userID, id uuid.UUID) (models.Notification, error) {
	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		return models.Notification{}, err
	}

	if notification.ReadAt == nil {
		now := time.Now()
		notification.ReadAt = &now
		if err := db.Save(&notification).Error; err != nil {
			return models.Notification{}, err
		}
	}

	return notification, nil
}

func (s *NotificationServiceImpl) MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

func (s *NotificationServiceImpl) UnreadCount(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// CreateDueSoonNotifications creates one notification per very-important
// task whose due date falls inside the warning window. Called by the
// periodic scan job; safe to re-run because tasks already notified are
// skipped.
func (s *NotificationServiceImpl) CreateDueSoonNotifications(db *gorm.DB, now time.Time, window time.Duration) (int, error) {
	var tasks []models.Task
	err := db.Where(
		"priority = ? AND status <> ? AND due_date IS NOT NULL AND due_date >= ? AND due_date <= ?",
		models.PriorityVeryImportant, models.StatusCompleted, now, now.Add(window),
	).Find(&tasks).Error
	if err != nil {
		return 0, err
	}

	created := 0
	for _, task := range tasks {
		var existing int64
		if err := db.Model(&models.Notification{}).
			Where("task_id = ?", task.ID).
			Count(&existing).Error; err != nil {
			return created, err
		}
		if existing > 0 {
			continue
		}

		notification := models.Notification{
			ID:       uuid.Must(uuid.NewV4()),
			UserID:   task.UserID,
			TaskID:   task.ID,
			Message:  fmt.Sprintf("%q is due %s", task.Title, task.DueDate.Format("Jan 2 at 15:04")),
			Priority: task.Priority,
		}
		if err := db.Create(&notification).Error; err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
