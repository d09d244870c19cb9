package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/metrics"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository/memory"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	app    *fiber.App
	tokens *transfer.TokenPair
	apiKey string
	userID int64
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	cfg := config.Config{SecretKey: "secret", CookieName: "sf", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}
	auth := service.NewAuthService(cfg, store.Users())
	keys := service.NewApiKeyService(store.ApiKeys())

	user, err := auth.Register(ctx, transfer.RegisterRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	tokens, err := auth.Login(ctx, transfer.LoginRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	key, err := keys.Create(ctx, user.ID)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(NewAuthMiddleware(cfg, auth, keys).AuthMiddleware())
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetActor(c).UserID})
	})
	return &authFixture{app: app, tokens: tokens, apiKey: key.ApiKey, userID: user.ID}
}

func (f *authFixture) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAuthMiddlewareSources(t *testing.T) {
	f := newAuthFixture(t)

	bearer := httptest.NewRequest(http.MethodGet, "/me", nil)
	bearer.Header.Set("Authorization", "Bearer "+f.tokens.AccessToken)

	cookie := httptest.NewRequest(http.MethodGet, "/me", nil)
	cookie.AddCookie(&http.Cookie{Name: "sf", Value: f.tokens.AccessToken})

	query := httptest.NewRequest(http.MethodGet, "/me?api_key="+f.apiKey, nil)

	header := httptest.NewRequest(http.MethodGet, "/me", nil)
	header.Header.Set("X-API-Key", f.apiKey)

	for name, req := range map[string]*http.Request{"bearer": bearer, "cookie": cookie, "query": query, "header": header} {
		t.Run(name, func(t *testing.T) {
			status, body := f.do(t, req)
			assert.Equal(t, http.StatusOK, status)
			assert.EqualValues(t, f.userID, body["user_id"])
		})
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	f := newAuthFixture(t)

	status, body := f.do(t, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])

	refresh := httptest.NewRequest(http.MethodGet, "/me", nil)
	refresh.Header.Set("Authorization", "Bearer "+f.tokens.RefreshToken)
	status, _ = f.do(t, refresh)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/me?api_key=unknown", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	stale := httptest.NewRequest(http.MethodGet, "/me", nil)
	stale.AddCookie(&http.Cookie{Name: "sf", Value: "garbage"})
	resp, err := f.app.Test(stale)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, strings.Contains(resp.Header.Get("Set-Cookie"), "sf="))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(ActorKey, actorFromHeader(c))
		return c.Next()
	})
	app.Use(limiter.Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	send := func(user string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", user)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, fiber.StatusNoContent, send("1").StatusCode)
	assert.Equal(t, fiber.StatusNoContent, send("1").StatusCode)
	limited := send("1")
	assert.Equal(t, fiber.StatusTooManyRequests, limited.StatusCode)
	assert.NotEmpty(t, limited.Header.Get("Retry-After"))

	assert.Equal(t, fiber.StatusNoContent, send("2").StatusCode, "limits are per user")

	unlimited := NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		ok, _ := unlimited.Reserve(1)
		require.True(t, ok)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/things/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusAccepted) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `socialflow_http_requests_total{method="GET",route="/things/:id",status="202"} 1`)
}

func TestMetricsLabelsSurviveLaterRequests(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Post("/orders", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Get("/orders/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/orders", nil),
		httptest.NewRequest(http.MethodGet, "/bbbbbbbbbbbb", nil),
		httptest.NewRequest(http.MethodGet, "/orders/7", nil),
		httptest.NewRequest(http.MethodGet, "/bbbbbbbbbbbb", nil),
		httptest.NewRequest(http.MethodDelete, "/orders/7", nil),
		httptest.NewRequest(http.MethodGet, "/bbbbbbbbbbbb", nil),
	}
	for _, req := range requests {
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := rec.Body.String()
		assert.Contains(t, body, `socialflow_http_requests_total{method="POST",route="/orders",status="201"} 1`)
		assert.Contains(t, body, `socialflow_http_requests_total{method="GET",route="/orders/:id",status="200"} 1`)
	}
}

func actorFromHeader(c *fiber.Ctx) any {
	id, _ := strconv.ParseInt(c.Get("X-User"), 10, 64)
	return models.Actor{UserID: id}
}
