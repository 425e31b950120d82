package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chirper/internal/cache"
	"chirper/internal/config"
	"chirper/internal/database"
	"chirper/internal/handler"
	"chirper/internal/queue"
	appredis "chirper/internal/redis"
	"chirper/internal/repository"
	"chirper/internal/service"
	"chirper/internal/worker"
)

const (
	feedWorkerCount = 2
	shutdownTimeout = 10 * time.Second
)

// Run wires the application together and serves until interrupted.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Redis is optional. Without it the feed endpoint reads straight from
	// Postgres and no workers run.
	var (
		feedCache cache.FeedCache
		publisher queue.Publisher
		manager   *worker.Manager
	)
	if cfg.RedisURL != "" {
		redisClient, err := appredis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}

		feedCache = cache.NewFeedCache(redisClient.Client)
		publisher = queue.NewPublisher(redisClient.Client)

		consumer := queue.NewConsumer(redisClient.Client)
		feedHandler := worker.NewHandler(feedCache, followRepo, postRepo)
		manager = worker.NewManager(consumer, feedHandler, feedWorkerCount)
		if err := manager.Start(context.Background()); err != nil {
			return fmt.Errorf("failed to start feed workers: %w", err)
		}
		defer manager.Stop()
	}

	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	// Services
	tokenService := service.NewTokenService(cfg)
	notificationService := service.NewNotificationService(notificationRepo)
	userService := service.NewUserService(userRepo, followRepo, postRepo, mediaService)
	followService := service.NewFollowService(followRepo, userRepo, notificationService, publisher)
	postService := service.NewPostService(postRepo, userRepo, followRepo, commentRepo, notificationService, mediaService, feedCache, publisher)

	// Handlers
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, tokenService, cfg),
		UserHandler:         handler.NewUserHandler(userService, followService),
		PostHandler:         handler.NewPostHandler(postService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		TokenVerifier:       tokenService,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
