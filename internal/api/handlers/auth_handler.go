package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req transfer.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.s.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login returns the token pair and also sets the access token as a cookie
// for browser clients.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req transfer.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	tokens, err := h.s.Login(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    tokens.AccessToken,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.AccessTokenTTL),
	})

	return c.JSON(tokens)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req transfer.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	tokens, err := h.s.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(tokens)
}
