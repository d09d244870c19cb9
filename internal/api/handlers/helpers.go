package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/api/middleware"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/service"
)

func GetActor(c *fiber.Ctx) models.Actor {
	return middleware.GetActor(c)
}

// respondError writes err as {"error": ...} with the status its kind maps to.
// Internal errors are logged and hidden from the client.
func respondError(c *fiber.Ctx, err error) error {
	status := apperror.HTTPStatus(err)
	if errors.Is(err, service.ErrStorageNotConfigured) || errors.Is(err, service.ErrAIDisabled) {
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		slog.Error(err.Error(), "method", c.Method(), "path", c.Path())
		return c.Status(status).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		slog.Info(err.Error())
		return apperror.Invalid("invalid request body")
	}
	return nil
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Invalid("invalid id %q", c.Params("id"))
	}
	return id, nil
}

func queryInt64(c *fiber.Ctx, key string) (int64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, apperror.Invalid("%s must be an integer", key)
	}
	return n, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	n, err := queryInt64(c, key)
	return int(n), err
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.Invalid("%s must be an RFC 3339 timestamp or YYYY-MM-DD date", key)
}

func page(c *fiber.Ctx) (int, int, error) {
	skip, err := queryInt(c, "skip")
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}
