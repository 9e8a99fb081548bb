package handlers

import (
	"time"

	"taskify/internal/config"
	"taskify/internal/middleware"
	"taskify/internal/monitoring"
	"taskify/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterDeps bundles everything the HTTP layer needs. Services are
// interfaces so tests can swap in mocks.
type RouterDeps struct {
	DB                  *gorm.DB
	Config              *config.Config
	TaskService         services.TaskService
	HistoryService      services.HistoryService
	StatsService        services.StatsService
	NotificationService services.NotificationService
	AuthService         services.AuthService
	HealthChecker       *monitoring.HealthChecker
	RateLimiter         *middleware.RateLimiter
}

// NewRouter wires all routes under /api/v1. Everything except health,
// signup and login sits behind the auth middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.MetricsMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	taskHandler := NewTaskHandler(deps.DB, deps.TaskService)
	historyHandler := NewHistoryHandler(deps.DB, deps.HistoryService)
	statsHandler := NewStatsHandler(deps.DB, deps.StatsService)
	notificationHandler := NewNotificationHandler(deps.DB, deps.NotificationService)
	authHandler := NewAuthHandler(deps.DB, deps.AuthService)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	authRequired := middleware.AuthMiddleware(middleware.AuthConfig{
		JWTSecret: deps.Config.Auth.JWTSecret,
	})

	// bare /health for load balancers, versioned path for clients
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.GET("/metrics", healthHandler.Metrics)

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		tasks := v1.Group("/tasks", authRequired)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.GetTasks)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/complete", taskHandler.CompleteTask)
			tasks.PATCH("/:id/incomplete", taskHandler.IncompleteTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		history := v1.Group("/history", authRequired)
		{
			history.GET("", historyHandler.GetHistory)
			history.DELETE("/:id", historyHandler.DeleteEntry)
		}

		v1.GET("/stats/weekly", authRequired, statsHandler.GetWeeklyStats)

		notifications := v1.Group("/notifications", authRequired)
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread/count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.PATCH("/mark-all-read", notificationHandler.MarkAllRead)
		}
	}

	return router
}
