package transfer

import (
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type CreateScheduleRequest struct {
	PostID      int64     `json:"post_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Timezone    string    `json:"timezone"`
	Recurrence  string    `json:"recurrence"`
}

type UpdateScheduleRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
	Timezone    *string    `json:"timezone"`
	Recurrence  *string    `json:"recurrence"`
	Status      *string    `json:"status"`
}

type ScheduleQuery struct {
	Skip       int
	Limit      int
	PlatformID int64
	Status     string
	From       *time.Time
	To         *time.Time
}

type ScheduleDetail struct {
	*models.Schedule
	Post         *models.Post `json:"post"`
	PlatformName string       `json:"platform_name"`
	PlatformType string       `json:"platform_type"`
}
