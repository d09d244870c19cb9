package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: service}
}

func analyticsRange(c *fiber.Ctx) (transfer.AnalyticsRange, error) {
	r := transfer.AnalyticsRange{Interval: c.Query("interval")}

	var err error
	if r.PlatformID, err = queryInt64(c, "platform_id"); err != nil {
		return r, err
	}
	if r.Limit, err = queryInt(c, "limit"); err != nil {
		return r, err
	}
	from, err := queryTime(c, "from_date")
	if err != nil {
		return r, err
	}
	if from != nil {
		r.From = *from
	}
	to, err := queryTime(c, "to_date")
	if err != nil {
		return r, err
	}
	if to != nil {
		r.To = *to
	}
	return r, nil
}

func (h *AnalyticsHandler) Platform(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	r, err := analyticsRange(c)
	if err != nil {
		return respondError(c, err)
	}
	r.PlatformID = id

	out, err := h.s.Platform(c.Context(), GetActor(c), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AnalyticsHandler) Performance(c *fiber.Ctx) error {
	r, err := analyticsRange(c)
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Performance(c.Context(), GetActor(c), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AnalyticsHandler) Audience(c *fiber.Ctx) error {
	platformID, err := queryInt64(c, "platform_id")
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Audience(c.Context(), GetActor(c), platformID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AnalyticsHandler) Engagement(c *fiber.Ctx) error {
	r, err := analyticsRange(c)
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Engagement(c.Context(), GetActor(c), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AnalyticsHandler) Growth(c *fiber.Ctx) error {
	r, err := analyticsRange(c)
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Growth(c.Context(), GetActor(c), r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AnalyticsHandler) Export(c *fiber.Ctx) error {
	r, err := analyticsRange(c)
	if err != nil {
		return respondError(c, err)
	}

	url, err := h.s.Export(c.Context(), GetActor(c), r, c.Query("format", "csv"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transfer.ExportResponse{DownloadURL: url})
}
