package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskify/internal/cache"
	"taskify/internal/config"
	"taskify/internal/database"
	"taskify/internal/handlers"
	"taskify/internal/middleware"
	"taskify/internal/monitoring"
	"taskify/internal/services"
	"taskify/internal/worker"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger := initLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if !cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		logger = logger.Output(consoleWriter)
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        gormLogLevel(cfg),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(pool.DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Msg("database ready")

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()

	if err := redisCache.Health(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable at startup, continuing degraded")
	}

	// L1 in-process, L2 Redis behind a circuit breaker. A Redis outage
	// degrades reads to cache misses instead of failing requests.
	appCache := cache.NewMultiLevelCache(
		cache.NewBreakerCache(redisCache, cache.DefaultCircuitBreakerConfig()),
	)

	taskService := services.NewCachedTaskService(services.NewTaskService(), appCache)
	historyService := services.NewHistoryService()
	statsService := services.NewStatsService()
	notificationService := services.NewNotificationService()
	authService := services.NewAuthService(cfg.Auth)

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.Register("database", func(ctx context.Context) error {
		return pool.Health()
	})
	healthChecker.Register("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMin:  cfg.RateLimit.RequestsPerMin,
			BurstSize:       cfg.RateLimit.BurstSize,
			CleanupInterval: cfg.RateLimit.CleanupInterval,
		})
		defer rateLimiter.Stop()
	}

	jobWorker := worker.NewWorker(worker.Config{
		RedisClient: redisCache.Client(),
		Logger:      logger,
		Queues:      cfg.Worker.Queues,
	})
	jobWorker.RegisterHandler(worker.JobTypeDueSoonScan,
		worker.NewDueSoonScanHandler(pool.DB, notificationService, cfg.Worker.DueSoonWindow, logger))
	jobWorker.RegisterHandler(worker.JobTypeSessionCleanup,
		worker.NewSessionCleanupHandler(pool.DB, logger))
	jobWorker.Start(cfg.Worker.Concurrency)
	defer jobWorker.Stop()

	scheduler := worker.NewScheduler(
		worker.NewJobQueue(redisCache.Client()), logger, cfg.Worker.ScanInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := handlers.NewRouter(handlers.RouterDeps{
		DB:                  pool.DB,
		Config:              cfg,
		TaskService:         taskService,
		HistoryService:      historyService,
		StatsService:        statsService,
		NotificationService: notificationService,
		AuthService:         authService,
		HealthChecker:       healthChecker,
		RateLimiter:         rateLimiter,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server")
	}
	logger.Info().Msg("shutdown complete")
}

func initLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}

func gormLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.IsProduction() {
		return gormlogger.Warn
	}
	return gormlogger.Info
}
