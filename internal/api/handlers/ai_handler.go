package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type AIHandler struct {
	s service.AIService
}

func NewAIHandler(service service.AIService) *AIHandler {
	return &AIHandler{s: service}
}

func (h *AIHandler) Generate(c *fiber.Ctx) error {
	var req transfer.GenerateContentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Generate(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AIHandler) Improve(c *fiber.Ctx) error {
	var req transfer.ImproveContentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Improve(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AIHandler) Ideas(c *fiber.Ctx) error {
	count, err := queryInt(c, "count")
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Ideas(c.Context(), c.Query("platform"), c.Query("topic"), count)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AIHandler) Hashtags(c *fiber.Ctx) error {
	count, err := queryInt(c, "count")
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.s.Hashtags(c.Context(), c.Query("content"), c.Query("platform"), count)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
