package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/service"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type ScheduleHandler struct {
	s service.ScheduleService
}

func NewScheduleHandler(service service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{s: service}
}

func (h *ScheduleHandler) ListSchedules(c *fiber.Ctx) error {
	q := transfer.ScheduleQuery{Status: c.Query("status")}

	var err error
	if q.Skip, q.Limit, err = page(c); err != nil {
		return respondError(c, err)
	}
	if q.PlatformID, err = queryInt64(c, "platform_id"); err != nil {
		return respondError(c, err)
	}
	if q.From, err = queryTime(c, "from_date"); err != nil {
		return respondError(c, err)
	}
	if q.To, err = queryTime(c, "to_date"); err != nil {
		return respondError(c, err)
	}

	schedules, err := h.s.List(c.Context(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(schedules)
}

func (h *ScheduleHandler) CreateSchedule(c *fiber.Ctx) error {
	var req transfer.CreateScheduleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if req.ScheduledAt.IsZero() {
		return badRequest(c, "scheduled_at is required")
	}

	sc, err := h.s.Create(c.Context(), GetActor(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sc)
}

func (h *ScheduleHandler) Upcoming(c *fiber.Ctx) error {
	days, err := queryInt(c, "days")
	if err != nil {
		return respondError(c, err)
	}

	schedules, err := h.s.Upcoming(c.Context(), GetActor(c), days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(schedules)
}

func (h *ScheduleHandler) GetSchedule(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	sc, err := h.s.Get(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(sc)
}

func (h *ScheduleHandler) UpdateSchedule(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req transfer.UpdateScheduleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	sc, err := h.s.Update(c.Context(), GetActor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(sc)
}

func (h *ScheduleHandler) CancelSchedule(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	sc, err := h.s.Cancel(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(sc)
}

func (h *ScheduleHandler) DeleteSchedule(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.s.Remove(c.Context(), GetActor(c), id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
