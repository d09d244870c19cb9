package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/service"
)

// ActorKey is the fiber Locals key holding the authenticated models.Actor.
const ActorKey = "actor"

type AuthMiddleware struct {
	auth service.AuthService
	keys service.ApiKeyService
	cfg  config.Config
}

func NewAuthMiddleware(cfg config.Config, auth service.AuthService, keys service.ApiKeyService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, keys: keys, cfg: cfg}
}

// GetActor returns the actor stored by AuthMiddleware, or the zero Actor.
func GetActor(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals(ActorKey).(models.Actor)
	return actor
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthMiddleware accepts a bearer token, the session cookie, or an API key
// passed as the api_key query parameter or X-API-Key header.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		fromCookie := false
		if tokenString == "" {
			tokenString = c.Cookies(m.cfg.CookieName)
			fromCookie = tokenString != ""
		}
		apiKey := c.Query("api_key")
		if apiKey == "" {
			apiKey = c.Get("X-API-Key")
		}

		if tokenString == "" && apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing token or API key",
			})
		}

		var (
			actor models.Actor
			err   error
		)
		if tokenString != "" {
			actor, err = m.auth.Authenticate(c.Context(), tokenString)
			if err != nil && fromCookie {
				c.Cookie(&fiber.Cookie{
					Name:   m.cfg.CookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		} else {
			var userID int64
			userID, err = m.keys.GetUserID(c.Context(), apiKey)
			if err == nil {
				actor, err = m.auth.ActorFor(c.Context(), userID)
			}
		}

		if err != nil {
			slog.Info(err.Error())
			if !errors.Is(err, apperror.ErrUnauthorized) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "unable to authenticate",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired credentials",
			})
		}

		c.Locals(ActorKey, actor)
		return c.Next()
	}
}
