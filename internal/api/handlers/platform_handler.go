package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type PlatformHandler struct {
	s service.PlatformService
}

func NewPlatformHandler(service service.PlatformService) *PlatformHandler {
	return &PlatformHandler{s: service}
}

func (h *PlatformHandler) ListPlatforms(c *fiber.Ctx) error {
	skip, limit, err := page(c)
	if err != nil {
		return respondError(c, err)
	}

	platforms, err := h.s.List(c.Context(), GetActor(c), skip, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(platforms)
}

func (h *PlatformHandler) CreatePlatform(c *fiber.Ctx) error {
	var req transfer.CreatePlatformRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	platform, err := h.s.Create(c.Context(), GetActor(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(platform)
}

func (h *PlatformHandler) GetPlatform(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	platform, err := h.s.Get(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(platform)
}

func (h *PlatformHandler) UpdatePlatform(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req transfer.UpdatePlatformRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	platform, err := h.s.Update(c.Context(), GetActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(platform)
}

func (h *PlatformHandler) DeletePlatform(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.s.Delete(c.Context(), GetActor(c), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PlatformHandler) VerifyPlatform(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.s.Verify(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *PlatformHandler) PlatformStats(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.s.Stats(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

func (h *PlatformHandler) RecordMetric(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req transfer.PlatformMetricRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	m, err := h.s.RecordMetric(c.Context(), GetActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}
