package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/mentorship-backend/config"
	"github.com/vnkhanh/mentorship-backend/controllers"
	"github.com/vnkhanh/mentorship-backend/events"
	"github.com/vnkhanh/mentorship-backend/routes"
	"github.com/vnkhanh/mentorship-backend/services"
	"github.com/vnkhanh/mentorship-backend/utils"
	"github.com/vnkhanh/mentorship-backend/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	if err := config.Migrate(db); err != nil {
		logger.Error("migrate database", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var cache services.MentorCache
	redisCache, err := services.NewRedisMentorCache(ctx, cfg.RedisURL, 5*time.Minute)
	if err != nil {
		logger.Warn("redis unavailable, mentor directory is not cached", "error", err)
	} else if redisCache != nil {
		cache = redisCache
		defer redisCache.Close()
	}

	amqpPublisher, closeAMQP, err := events.NewAMQPPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, events are not published", "error", err)
		amqpPublisher, closeAMQP = events.Nop{}, func() error { return nil }
	}
	defer closeAMQP()

	hub := ws.NewHub(logger)
	publisher := events.Multi{hub, events.Metrics{}, amqpPublisher}

	userService := services.NewUserService(db, cache, publisher, time.Now)
	profileService := services.NewProfileService(db, cache, publisher, time.Now)
	requestService := services.NewRequestService(db, publisher, time.Now, cfg.Location)
	sessionService := services.NewSessionService(db)
	healthService := services.NewHealthService(db)

	tokens := utils.NewTokenIssuer(cfg.SessionSecret, cfg.SessionMaxAge, time.Now)
	google := services.NewGoogleOAuthService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	secure := cfg.IsProduction()

	var photos utils.PhotoStore
	if store := utils.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.PhotoBucket); store != nil {
		photos = store
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRouter(r, routes.Deps{
		Logger:       logger,
		Tokens:       tokens,
		SecureCookie: secure,
		Auth:         controllers.NewAuthController(userService, google, tokens, controllers.NewStateStore(cfg.SessionSecret, secure), secure),
		Profiles:     controllers.NewProfileController(profileService, photos),
		Requests:     controllers.NewRequestController(requestService),
		Sessions:     controllers.NewSessionController(sessionService),
		Health:       controllers.NewHealthController(healthService, cfg, hub, time.Now),
		Pages:        controllers.NewPageController(userService, profileService, requestService, sessionService, secure),
		Hub:          hub,
		Upgrader:     ws.NewUpgrader(cfg.CORSOrigins),
	})

	logger.Info("server running", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
