package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/database"
	"coursehub/internal/config"
	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/handler"
	"coursehub/internal/microservices/http-api/middleware"
	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/microservices/http-api/router"
	"coursehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	appLog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer appLog.Sync()

	if err := run(cfg, appLog); err != nil {
		appLog.Error("api_server_failed", "error", err.Error())
		appLog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLog *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenGorm(cfg, appLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			appLog.Warn("database_close_failed", "error", err.Error())
		}
	}()
	if err := database.Migrate(db); err != nil {
		return err
	}

	// the API keeps working without redis, only uncached
	var rdb *redis.Client
	if client, err := database.OpenRedis(ctx, cfg); err != nil {
		appLog.Warn("redis_unavailable", "error", err.Error())
	} else {
		rdb = client
		defer rdb.Close()
	}

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	cache := repository.NewProgressCache(rdb, cfg.CacheExpiry(), appLog)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	courseService := service.NewCourseService(courseRepo)
	progressService := service.NewProgressService(progressRepo, courseRepo, userRepo, cache, appLog)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, progressRepo, cache)
	reviewService := service.NewReviewService(reviewRepo, courseRepo, enrollmentRepo)
	cartService := service.NewCartService(courseRepo, enrollmentRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, courseRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(time.Minute, ctx.Done())

	timeout := cfg.RequestTimeout
	engine := router.New(router.Config{
		Log:               appLog,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimiter:       limiter,
		TokenValidator:    authService,
		AuthHandler:       handler.NewAuthHandler(authService, appLog, timeout),
		CourseHandler:     handler.NewCourseHandler(courseService, appLog, timeout),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, appLog, timeout),
		ReviewHandler:     handler.NewReviewHandler(reviewService, appLog, timeout),
		CartHandler:       handler.NewCartHandler(cartService, appLog, timeout),
		ProgressHandler:   handler.NewProgressHandler(progressService, appLog, timeout),
		WishlistHandler:   handler.NewWishlistHandler(wishlistService, appLog, timeout),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		appLog.Info("starting_http_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		appLog.Info("received_shutdown_signal")
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	appLog.Info("server_stopped_gracefully")
	return nil
}
