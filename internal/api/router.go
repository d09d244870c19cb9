package api

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/api/handlers"
	"github.com/maheshrc27/socialflow/internal/api/middleware"
	"github.com/maheshrc27/socialflow/internal/metrics"
	"github.com/maheshrc27/socialflow/internal/service"
)

type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Keys      service.ApiKeyService
	Platforms service.PlatformService
	Posts     service.PostService
	Schedules service.ScheduleService
	Analytics service.AnalyticsService
	AI        service.AIService
	Media     service.MediaService
}

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

func NewApp(cfg config.Config, s Services, health HealthFunc) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code == fiber.StatusInternalServerError {
				slog.Error(err.Error())
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	origins := cfg.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           3600,
	}))
	app.Use(middleware.Metrics())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if health != nil {
			if err := health(c.Context()); err != nil {
				slog.Info(err.Error())
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	Register(app, cfg, s)
	return app
}

func Register(app *fiber.App, cfg config.Config, s Services) {
	v1 := app.Group("/api/v1")

	auth := handlers.NewAuthHandler(cfg, s.Auth)
	v1.Post("/auth/register", auth.Register)
	v1.Post("/auth/login", auth.Login)
	v1.Post("/auth/refresh", auth.Refresh)

	authMiddleware := middleware.NewAuthMiddleware(cfg, s.Auth, s.Keys)
	api := v1.Group("", authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(s.Users)
	api.Get("/users/me", user.GetUserInfo)
	api.Put("/users/me", user.UpdateMe)
	api.Get("/users", user.ListUsers)
	api.Get("/users/:id", user.GetUser)
	api.Delete("/users/:id", user.RemoveUser)

	apiKeys := handlers.NewApiKeyHandler(s.Keys)
	api.Post("/api_keys", apiKeys.CreateApiKey)
	api.Get("/api_keys", apiKeys.ListKeys)
	api.Delete("/api_keys/:id", apiKeys.RemoveAPIKey)

	platform := handlers.NewPlatformHandler(s.Platforms)
	api.Get("/platforms", platform.ListPlatforms)
	api.Post("/platforms", platform.CreatePlatform)
	api.Get("/platforms/:id", platform.GetPlatform)
	api.Put("/platforms/:id", platform.UpdatePlatform)
	api.Delete("/platforms/:id", platform.DeletePlatform)
	api.Post("/platforms/:id/verify", platform.VerifyPlatform)
	api.Get("/platforms/:id/stats", platform.PlatformStats)
	api.Post("/platforms/:id/metrics", platform.RecordMetric)

	post := handlers.NewPostHandler(s.Posts)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts/:id", post.GetPost)
	api.Put("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/:id/publish", post.PublishPost)
	api.Get("/posts/:id/analytics", post.PostAnalytics)
	api.Get("/posts/:id/attempts", post.PublishAttempts)
	api.Post("/posts/:id/metrics", post.RecordMetric)

	schedule := handlers.NewScheduleHandler(s.Schedules)
	api.Get("/schedules", schedule.ListSchedules)
	api.Post("/schedules", schedule.CreateSchedule)
	api.Get("/schedules/upcoming", schedule.Upcoming)
	api.Get("/schedules/:id", schedule.GetSchedule)
	api.Put("/schedules/:id", schedule.UpdateSchedule)
	api.Post("/schedules/:id/cancel", schedule.CancelSchedule)
	api.Delete("/schedules/:id", schedule.DeleteSchedule)

	analytics := handlers.NewAnalyticsHandler(s.Analytics)
	api.Get("/analytics/platform/:id", analytics.Platform)
	api.Get("/analytics/performance", analytics.Performance)
	api.Get("/analytics/audience", analytics.Audience)
	api.Get("/analytics/engagement", analytics.Engagement)
	api.Get("/analytics/growth", analytics.Growth)
	api.Get("/analytics/export", analytics.Export)

	ai := handlers.NewAIHandler(s.AI)
	aiRoutes := api.Group("/ai", middleware.NewRateLimiter(cfg.OpenAI.RatePerMinute).Handler())
	aiRoutes.Post("/generate", ai.Generate)
	aiRoutes.Post("/improve", ai.Improve)
	aiRoutes.Get("/ideas", ai.Ideas)
	aiRoutes.Get("/hashtags", ai.Hashtags)

	media := handlers.NewMediaHandler(s.Media)
	api.Post("/media", media.Upload)
}
