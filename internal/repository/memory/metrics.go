package memory

import (
	"context"
	"sort"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type metricRepo struct{ s *Store }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (r *metricRepo) CreatePlatformMetric(_ context.Context, m *models.PlatformMetric) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	c.ID = r.s.id()
	r.s.platformMetric[c.ID] = &c
	return c.ID, nil
}

func (r *metricRepo) ListPlatformMetrics(_ context.Context, platformID int64, from, to time.Time) ([]*models.PlatformMetric, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.PlatformMetric
	for _, m := range r.s.platformMetric {
		if m.PlatformID == platformID && inRange(m.Date, from, to) {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *metricRepo) CreatePostMetric(_ context.Context, m *models.PostMetric) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *m
	c.ID = r.s.id()
	r.s.postMetric[c.ID] = &c
	return c.ID, nil
}

func (r *metricRepo) ListPostMetrics(_ context.Context, postID int64) ([]*models.PostMetric, error) {
	return r.listPostMetrics(func(m *models.PostMetric) bool { return m.PostID == postID }), nil
}

func (r *metricRepo) ListPostMetricsByUser(_ context.Context, userID int64, from, to time.Time) ([]*models.PostMetric, error) {
	return r.listPostMetrics(func(m *models.PostMetric) bool {
		p, ok := r.s.posts[m.PostID]
		return ok && (userID == 0 || p.UserID == userID) && inRange(m.Date, from, to)
	}), nil
}

func (r *metricRepo) listPostMetrics(keep func(*models.PostMetric) bool) []*models.PostMetric {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.PostMetric
	for _, m := range r.s.postMetric {
		if keep(m) {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type attemptRepo struct{ s *Store }

func (r *attemptRepo) Create(_ context.Context, a *models.PublishAttempt) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	c.ID = r.s.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.s.attempts[c.ID] = &c
	return c.ID, nil
}

func (r *attemptRepo) ListByPostID(_ context.Context, postID int64) ([]*models.PublishAttempt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.PublishAttempt
	for _, a := range r.s.attempts {
		if a.PostID == postID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
