package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"reviewhub/docs"
	"reviewhub/internal/auth"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/db"
	"reviewhub/internal/handler"
	"reviewhub/internal/logging"
	"reviewhub/internal/mail"
	"reviewhub/internal/middleware"
	"reviewhub/internal/repository"
	"reviewhub/internal/router"
	"reviewhub/internal/service"
)

// @title ReviewHub API
// @version 1.0
// @description Reviews and ratings of creative works with categories, genres, comments and role-based moderation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "reviewhub:")
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.WithError(err).Warn("redis unavailable, identity cache disabled until it recovers")
	}
	cancelPing()

	var mailer mail.Sender
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		log.Warn("SENDGRID_API_KEY not set, confirmation codes are written to the log")
		mailer = mail.NewLogSender(log)
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	genreRepo := repository.NewGenreRepository(gormDB)
	titleRepo := repository.NewTitleRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	codes := auth.NewConfirmationCodes(cfg.JWTSecret, cfg.ConfirmationCodeTTL)

	// Services
	authService := service.NewAuthService(userRepo, codes, jwtService, mailer, log)
	userService := service.NewUserService(userRepo, cacheClient, cfg.UserCacheTTL)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(titleRepo, reviewRepo)
	commentService := service.NewCommentService(reviewRepo, commentRepo)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, metrics, jwtService, userService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Category: handler.NewCategoryHandler(categoryService),
		Genre:    handler.NewGenreHandler(genreService),
		Title:    handler.NewTitleHandler(titleService),
		Review:   handler.NewReviewHandler(reviewService),
		Comment:  handler.NewCommentHandler(commentService),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).Infof("swagger documentation available at http://%s/swagger/index.html", docs.SwaggerInfo.Host)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
