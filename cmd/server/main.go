package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/ai"
	"github.com/maheshrc27/socialflow/internal/api"
	"github.com/maheshrc27/socialflow/internal/credentials"
	job "github.com/maheshrc27/socialflow/internal/jobs"
	"github.com/maheshrc27/socialflow/internal/lifecycle"
	"github.com/maheshrc27/socialflow/internal/logger"
	"github.com/maheshrc27/socialflow/internal/migrations"
	"github.com/maheshrc27/socialflow/internal/publisher"
	"github.com/maheshrc27/socialflow/internal/queue"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/internal/repository/memory"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/robfig/cron"
)

type stores struct {
	users       repository.UserRepository
	apiKeys     repository.ApiKeyRepository
	platforms   repository.PlatformRepository
	credentials repository.CredentialRepository
	posts       repository.PostRepository
	schedules   repository.ScheduleRepository
	metrics     repository.MetricRepository
	attempts    repository.PublishAttemptRepository
}

func postgresStores(db *sql.DB) stores {
	return stores{
		users:       repository.NewUserRepository(db),
		apiKeys:     repository.NewApiKeyRepository(db),
		platforms:   repository.NewPlatformRepository(db),
		credentials: repository.NewCredentialRepository(db),
		posts:       repository.NewPostRepository(db),
		schedules:   repository.NewScheduleRepository(db),
		metrics:     repository.NewMetricRepository(db),
		attempts:    repository.NewPublishAttemptRepository(db),
	}
}

func memoryStores(m *memory.Store) stores {
	return stores{
		users:       m.Users(),
		apiKeys:     m.ApiKeys(),
		platforms:   m.Platforms(),
		credentials: m.Credentials(),
		posts:       m.Posts(),
		schedules:   m.Schedules(),
		metrics:     m.Metrics(),
		attempts:    m.PublishAttempts(),
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	zl, err := logger.Setup(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	defer zl.Sync()

	var (
		db     *sql.DB
		st     stores
		health api.HealthFunc
	)
	switch cfg.Store {
	case "memory":
		slog.Warn("using the in-memory store, data is lost on restart")
		st = memoryStores(memory.NewStore())
	case "postgres":
		db, err = sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer closeDB(db)

		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}
		if cfg.AutoMigrate {
			if err := migrations.Up(db); err != nil {
				log.Fatalf("Failed to apply migrations: %v", err)
			}
		}
		st = postgresStores(db)
		health = db.PingContext
	default:
		log.Fatalf("Unknown STORE %q, expected postgres or memory", cfg.Store)
	}

	vault, err := credentials.NewVault(st.credentials, cfg.CredentialsKey)
	if err != nil {
		log.Fatalf("Failed to open credential vault: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.PublishTimeout}
	ctrl := lifecycle.NewController(lifecycle.Deps{
		Posts:          st.posts,
		Schedules:      st.schedules,
		Platforms:      st.platforms,
		Attempts:       st.attempts,
		Credentials:    vault,
		Publisher:      publisher.NewDefaultRegistry(httpClient),
		PublishTimeout: cfg.PublishTimeout,
		Lease:          cfg.Trigger.Lease,
	})

	var storage service.StorageService
	r2Service, err := service.NewR2Service(context.Background(), cfg.R2)
	switch {
	case errors.Is(err, service.ErrStorageNotConfigured):
		slog.Warn("R2 is not configured, media upload and export are disabled")
	case err != nil:
		log.Fatalf("Failed to set up object storage: %v", err)
	default:
		storage = r2Service
	}

	var provider ai.Provider
	if cfg.OpenAI.APIKey != "" {
		provider = ai.NewOpenAI(&http.Client{Timeout: time.Minute}, cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		slog.Warn("OPENAI_API_KEY is not set, AI routes are disabled")
	}

	var (
		enqueuer    service.Enqueuer
		asynqServer *asynq.Server
	)
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		client := asynq.NewClient(redisConn)
		defer client.Close()
		enqueuer = queue.NewClient(client)

		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.Trigger.Concurrency,
		})
		mux := asynq.NewServeMux()
		queue.NewQueue(ctrl).Register(mux)

		go func() {
			slog.Info("Starting the Asynq server...")
			if err := asynqServer.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	} else {
		slog.Warn("REDIS_URI is not set, schedules fire from the sweeper only")
	}

	services := api.Services{
		Auth:      service.NewAuthService(*cfg, st.users),
		Users:     service.NewUserService(st.users),
		Keys:      service.NewApiKeyService(st.apiKeys),
		Platforms: service.NewPlatformService(st.platforms, st.posts, st.metrics, vault),
		Posts:     service.NewPostService(st.posts, st.platforms, st.metrics, st.attempts, ctrl),
		Schedules: service.NewScheduleService(st.schedules, st.posts, st.platforms, ctrl, enqueuer),
		Analytics: service.NewAnalyticsService(st.platforms, st.posts, st.metrics, storage),
		AI:        service.NewAIService(provider),
		Media:     service.NewMediaService(storage),
	}
	app := api.NewApp(*cfg, services, health)

	// cron jobs
	sweeper := job.NewDueScheduleJob(st.schedules, ctrl, cfg.Trigger.BatchSize, cfg.Trigger.Concurrency)
	c := cron.New()
	if err := c.AddFunc(fmt.Sprintf("@every %s", cfg.Trigger.Interval), sweeper.FireDue); err != nil {
		log.Fatalf("Failed to schedule the due-schedule sweeper: %v", err)
	}
	c.Start()

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info("Server is running", "addr", cfg.HTTPAddr, "store", cfg.Store)

	gracefulShutdown(app, c, asynqServer)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, c *cron.Cron, asynqServer *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("Shutting down server...")

	c.Stop()
	if asynqServer != nil {
		asynqServer.Shutdown()
	}
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("Failed to shut down server", "error", err.Error())
	}

	slog.Info("Server shutdown complete.")
}
