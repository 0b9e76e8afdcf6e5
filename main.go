package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"gullak/config"
	httpLayer "gullak/http"
	"gullak/jobs"
	"gullak/notify"
	"gullak/observability"
	"gullak/repository"
	"gullak/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	metrics := observability.NewMetrics("gullak")

	memCache := repository.NewMemoryCache()
	defer memCache.Stop()
	var cache repository.CacheRepository = memCache
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "gullak:")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisCache.Ping(ctx)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, using in-memory cache")
			redisCache.Close()
		} else {
			defer redisCache.Close()
			cache = redisCache
			logger.Infof("Using Redis cache at %s", cfg.RedisAddr)
		}
	}

	var historyRepo repository.HistoryRepository = repository.NewHistoryMemory()
	if cfg.DBConn != "" {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			logger.Fatalf("Failed to ping database: %v", err)
		}
		pg := repository.NewPostgresHistory(db)
		if err := pg.Migrate(ctx); err != nil {
			cancel()
			logger.Fatalf("Failed to migrate history table: %v", err)
		}
		cancel()
		historyRepo = pg
	}

	history := service.NewHistoryService(historyRepo, logger)
	advisor := service.NewAdvisorService(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel, logger)

	var sender service.PlanSender
	if cfg.SMTPConfigured() {
		sender = notify.NewPlanMailer(cfg, logger)
	}

	loanService := service.NewLoanService(history, logger)
	tenureService := service.NewTenureRecommendationService(advisor, history, logger)
	payoffService := service.NewDebtPayoffService(service.DebtPayoffDeps{
		Cache:    cache,
		CacheTTL: cfg.CacheTTL,
		History:  history,
		Advisor:  advisor,
		Sender:   sender,
		Metrics:  metrics,
		Log:      logger,
	})
	portfolioService := service.NewPortfolioService(cache, logger)

	retention := jobs.NewRetentionJob(history, cfg.HistoryRetention, metrics, logger)
	if err := retention.Start(cfg.RetentionSchedule); err != nil {
		logger.Fatalf("Failed to schedule history retention: %v", err)
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterDeps{
		Loans:      loanService,
		Tenure:     tenureService,
		Payoff:     payoffService,
		Portfolios: portfolioService,
		History:    history,
		Limiter:    rateLimiter,
		Metrics:    metrics,
		Log:        logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Error starting server: %v", err)
		return
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	retention.Stop(ctx)

	logger.Info("Server exited")
}
