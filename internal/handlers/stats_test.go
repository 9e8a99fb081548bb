package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskify/internal/handlers"
	"taskify/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockStatsService struct {
	stats services.WeeklyStats
	err   error
}

func (m *MockStatsService) GetWeeklyStats(db *gorm.DB, userID uuid.UUID, now time.Time) (services.WeeklyStats, error) {
	return m.stats, m.err
}

func setupStatsHandler() (*handlers.StatsHandler, *MockStatsService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockStatsService{}
	handler := handlers.NewStatsHandler(nil, mockService)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.Must(uuid.NewV4()).String())
		c.Next()
	})

	return handler, mockService, router
}

func TestGetWeeklyStats(t *testing.T) {
	handler, mockService, router := setupStatsHandler()

	router.GET("/stats/weekly", handler.GetWeeklyStats)

	mockService.stats = services.WeeklyStats{
		Days: []services.DayStat{
			{Date: "2026-08-17", Created: 2, Completed: 1},
			{Date: "2026-08-18", Created: 1, Completed: 1},
		},
		TotalCreated:   3,
		TotalCompleted: 2,
		CompletionRate: 2.0 / 3.0,
	}

	req, _ := http.NewRequest("GET", "/stats/weekly", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}

	var stats services.WeeklyStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Errorf("Failed to unmarshal stats: %v", err)
	}
	if stats.TotalCreated != 3 {
		t.Errorf("Expected total created 3, got %d", stats.TotalCreated)
	}
	if len(stats.Days) != 2 {
		t.Errorf("Expected 2 days, got %d", len(stats.Days))
	}
}

func TestGetWeeklyStatsServiceError(t *testing.T) {
	handler, mockService, router := setupStatsHandler()

	router.GET("/stats/weekly", handler.GetWeeklyStats)

	mockService.err = gorm.ErrInvalidData

	req, _ := http.NewRequest("GET", "/stats/weekly", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
