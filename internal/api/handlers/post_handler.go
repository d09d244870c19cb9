package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	skip, limit, err := page(c)
	if err != nil {
		return respondError(c, err)
	}
	platformID, err := queryInt64(c, "platform_id")
	if err != nil {
		return respondError(c, err)
	}

	posts, err := h.s.List(c.Context(), GetActor(c), transfer.PostQuery{
		Skip:       skip,
		Limit:      limit,
		PlatformID: platformID,
		Status:     c.Query("status"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req transfer.CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.s.CreatePost(c.Context(), GetActor(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.s.PostInfo(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req transfer.UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.s.Update(c.Context(), GetActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.s.Remove(c.Context(), GetActor(c), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.s.Publish(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) PostAnalytics(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	analytics, err := h.s.Analytics(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(analytics)
}

func (h *PostHandler) PublishAttempts(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	attempts, err := h.s.Attempts(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(attempts)
}

func (h *PostHandler) RecordMetric(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req transfer.PostMetricRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	m, err := h.s.RecordMetric(c.Context(), GetActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}
