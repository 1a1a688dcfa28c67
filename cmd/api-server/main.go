package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"socialhub/database"
	"socialhub/internal/config"
	"socialhub/internal/http-api/handler"
	"socialhub/internal/http-api/middleware"
	"socialhub/internal/http-api/repository"
	"socialhub/internal/http-api/service"
	ws "socialhub/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	mediaRepo := repository.NewMessageMediaRepository(db)
	messageReactionRepo := repository.NewMessageReactionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	postRepo := repository.NewPostRepository(db)
	postReactionRepo := repository.NewPostReactionRepository(db)
	friendRequestRepo := repository.NewFriendRequestRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	// Realtime push. With REDIS_URL set, deliveries fan out across nodes
	// over pub/sub; without it the in-process registry serves alone.
	registry := ws.NewRegistry()
	var pusher service.Pusher = registry
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		if cfg.RedisPassword != "" {
			opts.Password = cfg.RedisPassword
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("could not connect to redis: %v", err)
		}
		fanout := ws.NewFanout(registry, rdb)
		go fanout.Run(context.Background())
		pusher = fanout
		logger.Info("Redis fan-out enabled", "url", cfg.RedisURL)
	}

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, profileRepo)
	messageService := service.NewMessageService(
		messageRepo, mediaRepo, messageReactionRepo,
		userRepo, profileRepo,
		notificationService, pusher,
	)
	reactionService := service.NewReactionService(postRepo, postReactionRepo, notificationService)
	friendService := service.NewFriendService(
		friendRequestRepo, friendRepo,
		userRepo, profileRepo,
		notificationService,
	)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))

	messageHandler := handler.NewMessageHandler(messageService)
	messageHandler.RegisterRoutes(protected.Group("/messages"))

	notificationHandler := handler.NewNotificationHandler(notificationService)
	notificationHandler.RegisterRoutes(protected.Group("/notifications"))

	reactionHandler := handler.NewReactionHandler(reactionService)
	reactionHandler.RegisterRoutes(protected.Group("/posts"))

	friendHandler := handler.NewFriendHandler(friendService)
	friendHandler.RegisterRoutes(protected.Group("/friend-requests"))

	// The websocket handshake runs through the same auth middleware, with
	// the token accepted from the query string for browser clients.
	protected.GET("/ws", ws.WSHandler(registry))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("API server listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
