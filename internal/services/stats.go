package services

import (
	"time"

	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type DayStat struct {
	Date      string `json:"date"`
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}

type WeeklyStats struct {
	Days           []DayStat `json:"days"`
	TotalCreated   int64     `json:"total_created"`
	TotalCompleted int64     `json:"total_completed"`
	CompletionRate float64   `json:"completion_rate"`
}

type StatsService interface {
	GetWeeklyStats(db *gorm.DB, userID uuid.UUID, now time.Time) (WeeklyStats, error)
}

type StatsServiceImpl struct{}

func NewStatsService() *StatsServiceImpl {
	return &StatsServiceImpl{}
}

// GetWeeklyStats aggregates per-day created/completed counts over the
// trailing seven days, today included.
func (s *StatsServiceImpl) GetWeeklyStats(db *gorm.DB, userID uuid.UUID, now time.Time) (WeeklyStats, error) {
	stats := WeeklyStats{Days: make([]DayStat, 0, 7)}

	for i := 6; i >= 0; i-- {
		// Midnight in now's location, so buckets follow the caller's
		// calendar day rather than absolute 24h windows.
		day := now.AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)

		var created int64
		if err := db.Model(&models.Task{}).
			Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, dayStart, dayEnd).
			Count(&created).Error; err != nil {
			return WeeklyStats{}, err
		}

		var completed int64
		if err := db.Model(&models.Task{}).
			Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, dayStart, dayEnd).
			Count(&completed).Error; err != nil {
			return WeeklyStats{}, err
		}

		stats.Days = append(stats.Days, DayStat{
			Date:      dayStart.Format("2006-01-02"),
			Created:   created,
			Completed: completed,
		})
		stats.TotalCreated += created
		stats.TotalCompleted += completed
	}

	if stats.TotalCreated > 0 {
		stats.CompletionRate = float64(stats.TotalCompleted) / float64(stats.TotalCreated)
	}

	return stats, nil
}
