package worker

import (
	"context"
	"time"

	"taskify/internal/models"
	"taskify/internal/services"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NewDueSoonScanHandler creates notifications for very-important tasks due
// within the window.
func NewDueSoonScanHandler(db *gorm.DB, notifications services.NotificationService, window time.Duration, logger zerolog.Logger) JobHandler {
	return func(ctx context.Context, job *Job) error {
		created, err := notifications.CreateDueSoonNotifications(db.WithContext(ctx), time.Now(), window)
		if err != nil {
			return err
		}

		if created > 0 {
			logger.Info().Int("created", created).Msg("due-soon notifications created")
		}
		return nil
	}
}

// NewSessionCleanupHandler deletes sessions past their expiry.
func NewSessionCleanupHandler(db *gorm.DB, logger zerolog.Logger) JobHandler {
	return func(ctx context.Context, job *Job) error {
		result := db.WithContext(ctx).
			Where("expires_at < ?", time.Now()).
			Delete(&models.Session{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			logger.Info().Int64("deleted", result.RowsAffected).Msg("expired sessions removed")
		}
		return nil
	}
}
