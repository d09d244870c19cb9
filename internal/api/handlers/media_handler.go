package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Info(err.Error())
		return badRequest(c, "unable to parse form")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return badRequest(c, "no files selected")
	}

	uploads, err := h.s.Upload(c.Context(), GetActor(c), files)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(uploads)
}
