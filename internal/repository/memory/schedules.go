package memory

import (
	"context"
	"sort"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
)

type scheduleRepo struct{ s *Store }

func copySchedule(sc *models.Schedule) *models.Schedule {
	c := *sc
	return &c
}

func sortSchedules(out []*models.Schedule) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
}

func (r *scheduleRepo) Create(_ context.Context, sc *models.Schedule) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := copySchedule(sc)
	c.ID = r.s.id()
	c.LeaseToken = ""
	c.LeaseExpiresAt = nil
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.schedules[c.ID] = c
	return c.ID, nil
}

func (r *scheduleRepo) GetByID(_ context.Context, id int64) (*models.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc, ok := r.s.schedules[id]
	if !ok {
		return nil, nil
	}
	return copySchedule(sc), nil
}

func (r *scheduleRepo) List(_ context.Context, f repository.ScheduleFilter) ([]*models.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Schedule
	for _, sc := range r.s.schedules {
		if f.UserID != 0 && sc.UserID != f.UserID {
			continue
		}
		if f.PlatformID != 0 {
			p, ok := r.s.posts[sc.PostID]
			if !ok || p.PlatformID != f.PlatformID {
				continue
			}
		}
		if f.Status != "" && sc.Status != f.Status {
			continue
		}
		if f.From != nil && sc.ScheduledAt.Before(*f.From) {
			continue
		}
		if f.To != nil && sc.ScheduledAt.After(*f.To) {
			continue
		}
		out = append(out, copySchedule(sc))
	}
	sortSchedules(out)
	return page(out, f.Offset, f.Limit), nil
}

func (r *scheduleRepo) ListDue(_ context.Context, now time.Time, limit int) ([]*models.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Schedule
	for _, sc := range r.s.schedules {
		if sc.Status == models.ScheduleStatusPending && !sc.ScheduledAt.After(now) && leaseFree(sc, now) {
			out = append(out, copySchedule(sc))
		}
	}
	sortSchedules(out)
	return page(out, 0, limit), nil
}

func (r *scheduleRepo) CountPendingByPostID(_ context.Context, postID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sc := range r.s.schedules {
		if sc.PostID == postID && sc.Status == models.ScheduleStatusPending {
			n++
		}
	}
	return n, nil
}

func (r *scheduleRepo) Update(_ context.Context, sc *models.Schedule, expected models.ScheduleStatus, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.schedules[sc.ID]
	if !ok || cur.Status != expected || cur.Status == models.ScheduleStatusCompleted || !leaseFree(cur, now) {
		return false, nil
	}
	cur.ScheduledAt = sc.ScheduledAt
	cur.Status = sc.Status
	cur.Timezone = sc.Timezone
	cur.Recurrence = sc.Recurrence
	cur.UpdatedAt = now
	return true, nil
}

func (r *scheduleRepo) Claim(_ context.Context, id int64, token string, until, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.schedules[id]
	if !ok || cur.Status != models.ScheduleStatusPending || cur.ScheduledAt.After(now) || !leaseFree(cur, now) {
		return false, nil
	}
	cur.LeaseToken = token
	cur.LeaseExpiresAt = &until
	return true, nil
}

func (r *scheduleRepo) Release(_ context.Context, id int64, token string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.schedules[id]
	if !ok || cur.Status != models.ScheduleStatusPending || cur.LeaseToken != token {
		return false, nil
	}
	cur.LeaseExpiresAt = nil
	return true, nil
}

func (r *scheduleRepo) finalize(id int64, token string, apply func(*models.Schedule)) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.schedules[id]
	if !ok || cur.Status != models.ScheduleStatusPending || cur.LeaseToken != token {
		return false
	}
	apply(cur)
	cur.LeaseExpiresAt = nil
	return true
}

func (r *scheduleRepo) Complete(_ context.Context, id int64, token string, at time.Time) (bool, error) {
	return r.finalize(id, token, func(sc *models.Schedule) {
		sc.Status = models.ScheduleStatusCompleted
		sc.CompletedAt = &at
		sc.ErrorMessage = ""
		sc.UpdatedAt = at
	}), nil
}

func (r *scheduleRepo) Fail(_ context.Context, id int64, token, message string, at time.Time) (bool, error) {
	return r.finalize(id, token, func(sc *models.Schedule) {
		sc.Status = models.ScheduleStatusFailed
		sc.ErrorMessage = message
		sc.UpdatedAt = at
	}), nil
}

func (r *scheduleRepo) Remove(_ context.Context, id int64, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.schedules[id]
	if !ok || cur.Status == models.ScheduleStatusCompleted || !leaseFree(cur, now) {
		return false, nil
	}
	delete(r.s.schedules, id)
	return true, nil
}
