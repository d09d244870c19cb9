package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/socialflow/internal/apperror"
)

func (q *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeFireSchedule, q.HandleFireScheduleTask)
}

// HandleFireScheduleTask fires one schedule. Publishing failures are stored
// on the schedule by the controller, so only storage errors are retried.
func (q *Queue) HandleFireScheduleTask(ctx context.Context, task *asynq.Task) error {
	var payload FireSchedulePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decoding payload: %v: %w", err, asynq.SkipRetry)
	}

	sc, err := q.ctrl.FireSchedule(ctx, payload.ScheduleID)
	if errors.Is(err, apperror.ErrNotFound) {
		slog.Info("fire task for deleted schedule", "schedule_id", payload.ScheduleID)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Debug("fire task done", "schedule_id", sc.ID, "status", sc.Status)
	return nil
}
