package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/quiz-platform/quiz-service/internal/cache"
	"github.com/quiz-platform/quiz-service/internal/config"
	"github.com/quiz-platform/quiz-service/internal/dispatcher"
	"github.com/quiz-platform/quiz-service/internal/handlers"
	"github.com/quiz-platform/quiz-service/internal/mailer"
	"github.com/quiz-platform/quiz-service/internal/repositories/postgres"
	"github.com/quiz-platform/quiz-service/internal/services"
	"github.com/quiz-platform/quiz-service/internal/utils"
	"github.com/quiz-platform/quiz-service/pkg"
)

const (
	quizCacheTTL  = 5 * time.Minute
	drainTimeout  = 30 * time.Second
	serverTimeout = 15 * time.Second
)

// NewServeCmd builds the subcommand that runs the HTTP server.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz service HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	logger := utils.NewSlogLogger(slogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	defer pkg.CloseDatabase(db)
	repo := postgres.NewRepository(db)

	// Redis is an optimization; the service runs without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			slogger.Warn("Redis unavailable, running without quiz cache", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	var quizCache *cache.QuizCache
	if redisClient != nil {
		quizCache = cache.NewQuizCache(redisClient, quizCacheTTL, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	pool := dispatcher.New(slogger)
	pool.Initialize(cfg.WorkerPoolSize)

	// Each background job gets its own database handle and mailer so worker
	// failures never poison the request-serving connections.
	scopes := func(jobCtx context.Context) (*services.JobScope, error) {
		jobDB, err := pkg.OpenJobDatabase(cfg)
		if err != nil {
			return nil, err
		}
		jobMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		return services.NewJobScope(postgres.NewRepository(jobDB), jobMailer, publisher, func() error {
			return pkg.CloseDatabase(jobDB)
		}), nil
	}

	validator := utils.NewValidator()
	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Repo:      repo,
		Cache:     quizCache,
		Publisher: publisher,
		Pool:      pool,
		Scopes:    scopes,
		Logger:    slogger,
		Validator: validator,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, validator, logger, []byte(cfg.JWTSecret))
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  serverTimeout,
		WriteTimeout: serverTimeout,
	}

	go func() {
		slogger.Info("Starting quiz service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogger.Error("Server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slogger.Info("Shutdown signal received")
	case <-ctx.Done():
		slogger.Info("Context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.Error("HTTP shutdown failed", "error", err)
	}

	// Stop intake first, then let queued scoring jobs finish.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()
	if err := pool.Shutdown(drainCtx); err != nil {
		slogger.Error("Worker pool drain incomplete", "error", err)
	}

	slogger.Info("Quiz service stopped")
	return nil
}
