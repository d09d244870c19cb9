package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	actor := GetActor(c)

	userInfo, err := h.s.GetUserInfo(c.Context(), actor, actor.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(userInfo)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	actor := GetActor(c)

	var req transfer.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.s.Update(c.Context(), actor, actor.UserID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	skip, limit, err := page(c)
	if err != nil {
		return respondError(c, err)
	}

	users, err := h.s.List(c.Context(), GetActor(c), skip, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(users)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.s.GetUserInfo(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

func (h *UserHandler) RemoveUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.s.RemoveUser(c.Context(), GetActor(c), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
