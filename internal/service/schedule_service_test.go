package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) schedules(q Enqueuer) ScheduleService {
	return NewScheduleService(e.store.Schedules(), e.store.Posts(), e.store.Platforms(), e.ctrl, q)
}

func TestCreateScheduleEnqueues(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	q := &fakeEnqueuer{}
	ss := e.schedules(q)
	p := e.draft(t, "later")

	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	sc, err := ss.Create(ctx, e.owner, transfer.CreateScheduleRequest{PostID: p.ID, ScheduledAt: at, Timezone: "Europe/Berlin"})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusPending, sc.Status)
	assert.Equal(t, "Europe/Berlin", sc.Timezone)
	assert.True(t, at.Equal(q.fires[sc.ID]))

	post, err := e.posts().PostInfo(ctx, e.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, post.Status)

	moved := at.Add(time.Hour)
	_, err = ss.Update(ctx, e.owner, sc.ID, transfer.UpdateScheduleRequest{ScheduledAt: &moved})
	require.NoError(t, err)
	assert.True(t, moved.Equal(q.fires[sc.ID]))

	_, err = ss.Create(ctx, e.other, transfer.CreateScheduleRequest{PostID: p.ID, ScheduledAt: at})
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)
	_, err = ss.Create(ctx, e.owner, transfer.CreateScheduleRequest{PostID: p.ID, ScheduledAt: time.Now().Add(-time.Minute)})
	assert.ErrorIs(t, err, apperror.ErrPastScheduleTime)
	_, err = ss.Create(ctx, e.owner, transfer.CreateScheduleRequest{PostID: p.ID, ScheduledAt: at, Recurrence: "hourly"})
	assert.ErrorIs(t, err, apperror.ErrInvalidRecurrence)
}

func TestEnqueueFailureKeepsSchedule(t *testing.T) {
	e := newEnv(t)
	ss := e.schedules(&fakeEnqueuer{err: errors.New("redis down")})
	p := e.draft(t, "later")

	sc, err := ss.Create(context.Background(), e.owner, transfer.CreateScheduleRequest{PostID: p.ID, ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusPending, sc.Status)
}

func TestScheduleQueries(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ss := e.schedules(nil)

	soon := e.draft(t, "soon")
	far := e.draft(t, "far")
	scSoon, err := ss.Create(ctx, e.owner, transfer.CreateScheduleRequest{PostID: soon.ID, ScheduledAt: time.Now().Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = ss.Create(ctx, e.owner, transfer.CreateScheduleRequest{PostID: far.ID, ScheduledAt: time.Now().Add(30 * 24 * time.Hour)})
	require.NoError(t, err)

	upcoming, err := ss.Upcoming(ctx, e.owner, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, scSoon.ID, upcoming[0].ID)
	assert.Equal(t, "soon", upcoming[0].Post.Content)
	assert.Equal(t, "tiktok", upcoming[0].PlatformType)

	_, err = ss.Upcoming(ctx, e.owner, MaxUpcomingDays+1)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	all, err := ss.List(ctx, e.owner, transfer.ScheduleQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	from, to := time.Now().Add(time.Hour), time.Now()
	_, err = ss.List(ctx, e.owner, transfer.ScheduleQuery{From: &from, To: &to})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = ss.List(ctx, e.owner, transfer.ScheduleQuery{Status: "sleeping"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	none, err := ss.List(ctx, e.other, transfer.ScheduleQuery{})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = ss.Get(ctx, e.other, scSoon.ID)
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)
}

func TestCancelAndRemoveSchedule(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ss := e.schedules(nil)
	p := e.draft(t, "maybe")

	sc, err := ss.Create(ctx, e.owner, transfer.CreateScheduleRequest{PostID: p.ID, ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	cancelled, err := ss.Cancel(ctx, e.owner, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusCancelled, cancelled.Status)

	post, err := e.posts().PostInfo(ctx, e.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)

	status := "pending"
	_, err = ss.Update(ctx, e.owner, sc.ID, transfer.UpdateScheduleRequest{Status: &status})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	require.NoError(t, ss.Remove(ctx, e.owner, sc.ID))
	_, err = ss.Get(ctx, e.owner, sc.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
