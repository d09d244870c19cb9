package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/maheshrc27/socialflow/internal/metrics"
)

// Metrics records request counts and latency labelled by route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPStarted()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		// Label values outlive the request, and fiber reuses the buffers
		// behind c.Method and the route path.
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		metrics.HTTPFinished(method, route, status, time.Since(start))
		return err
	}
}
