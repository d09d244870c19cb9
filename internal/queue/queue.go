package queue

import (
	"context"

	"github.com/maheshrc27/socialflow/internal/models"
)

const TaskTypeFireSchedule = "schedule:fire"

type FireSchedulePayload struct {
	ScheduleID int64 `json:"schedule_id"`
}

// Firer moves a due schedule out of pending.
type Firer interface {
	FireSchedule(ctx context.Context, id int64) (*models.Schedule, error)
}

type Queue struct {
	ctrl Firer
}

func NewQueue(ctrl Firer) *Queue {
	return &Queue{
		ctrl: ctrl,
	}
}
