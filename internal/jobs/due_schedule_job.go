package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/socialflow/internal/metrics"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
)

type Firer interface {
	FireSchedule(ctx context.Context, id int64) (*models.Schedule, error)
}

// DueScheduleJob fires every pending schedule whose time has come. It backs
// up the delayed task queue: a schedule whose task was lost is still fired
// on the next sweep.
type DueScheduleJob struct {
	sr          repository.ScheduleRepository
	ctrl        Firer
	batchSize   int
	concurrency int
	now         func() time.Time
}

func NewDueScheduleJob(sr repository.ScheduleRepository, ctrl Firer, batchSize, concurrency int) *DueScheduleJob {
	if batchSize <= 0 {
		batchSize = 100
	}
	if concurrency <= 0 {
		concurrency = 10
	}
	return &DueScheduleJob{
		sr:          sr,
		ctrl:        ctrl,
		batchSize:   batchSize,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// FireDue is the cron entry point.
func (j *DueScheduleJob) FireDue() {
	j.Sweep(context.Background())
}

// Sweep fires one batch of due schedules and returns how many it tried.
func (j *DueScheduleJob) Sweep(ctx context.Context) int {
	due, err := j.sr.ListDue(ctx, j.now(), j.batchSize)
	if err != nil {
		slog.Info(err.Error())
		return 0
	}
	metrics.SetDueSchedules(len(due))
	if len(due) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, j.concurrency)

	for _, sc := range due {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(sc *models.Schedule) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if _, err := j.ctrl.FireSchedule(ctx, sc.ID); err != nil {
				slog.Info("unable to fire schedule", "schedule_id", sc.ID, "error", err.Error())
			}
		}(sc)
	}

	wg.Wait()
	slog.Debug("due schedules swept", "count", len(due))
	return len(due)
}
