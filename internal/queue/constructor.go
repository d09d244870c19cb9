package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const maxFireRetries = 5

// Client enqueues delayed fire tasks. It satisfies service.Enqueuer.
type Client struct {
	asynqClient *asynq.Client
}

func NewClient(asynqClient *asynq.Client) *Client {
	return &Client{asynqClient: asynqClient}
}

// taskID is unique per schedule and fire time, so a rescheduled schedule
// gets a fresh task and the stale one turns into a not-due no-op.
func taskID(scheduleID int64, at time.Time) string {
	return fmt.Sprintf("schedule:%d:%d", scheduleID, at.Unix())
}

func NewFireTask(scheduleID int64, at time.Time) (*asynq.Task, error) {
	taskPayload, err := json.Marshal(FireSchedulePayload{ScheduleID: scheduleID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeFireSchedule, taskPayload,
		asynq.TaskID(taskID(scheduleID, at)),
		asynq.ProcessAt(at),
		asynq.MaxRetry(maxFireRetries),
	), nil
}

func (c *Client) EnqueueFire(ctx context.Context, scheduleID int64, at time.Time) error {
	task, err := NewFireTask(scheduleID, at)
	if err != nil {
		return err
	}

	_, err = c.asynqClient.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	slog.Debug("fire task scheduled", "schedule_id", scheduleID, "at", at)
	return nil
}
