package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFirer struct {
	mu       sync.Mutex
	fired    []int64
	inFlight atomic.Int32
	peak     atomic.Int32
	err      error
}

func (f *recordingFirer) FireSchedule(_ context.Context, id int64) (*models.Schedule, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.fired = append(f.fired, id)
	f.mu.Unlock()
	return nil, f.err
}

func seedSchedules(t *testing.T, store *memory.Store, at ...time.Time) []int64 {
	t.Helper()
	ctx := context.Background()
	ids := make([]int64, 0, len(at))
	for _, ts := range at {
		id, err := store.Schedules().Create(ctx, &models.Schedule{
			UserID: 1, PostID: 1, ScheduledAt: ts, Status: models.ScheduleStatusPending, Timezone: "UTC",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestSweepFiresOnlyDue(t *testing.T) {
	store := memory.NewStore()
	now := time.Now()
	ids := seedSchedules(t, store, now.Add(-time.Hour), now.Add(-time.Minute), now.Add(time.Hour))

	firer := &recordingFirer{}
	j := NewDueScheduleJob(store.Schedules(), firer, 10, 2)
	j.now = func() time.Time { return now }

	assert.Equal(t, 2, j.Sweep(context.Background()))
	assert.ElementsMatch(t, ids[:2], firer.fired)
}

func TestSweepRespectsLimits(t *testing.T) {
	store := memory.NewStore()
	past := time.Now().Add(-time.Hour)
	seedSchedules(t, store, past, past, past, past, past, past)

	firer := &recordingFirer{err: errors.New("boom")}
	j := NewDueScheduleJob(store.Schedules(), firer, 4, 2)

	assert.Equal(t, 4, j.Sweep(context.Background()))
	assert.Len(t, firer.fired, 4)
	assert.LessOrEqual(t, firer.peak.Load(), int32(2))
}

func TestSweepNothingDue(t *testing.T) {
	j := NewDueScheduleJob(memory.NewStore().Schedules(), &recordingFirer{}, 0, 0)
	assert.Equal(t, 0, j.Sweep(context.Background()))
	assert.Equal(t, 100, j.batchSize)
	assert.Equal(t, 10, j.concurrency)
}
