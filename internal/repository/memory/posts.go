package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
)

type postRepo struct{ s *Store }

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Hashtags = cloneStrings(p.Hashtags)
	c.Mentions = cloneStrings(p.Mentions)
	c.MediaURLs = cloneStrings(p.MediaURLs)
	return &c
}

func (r *postRepo) Create(_ context.Context, post *models.Post) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := copyPost(post)
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.posts[c.ID] = c
	return c.ID, nil
}

func (r *postRepo) GetByID(_ context.Context, id int64) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	return copyPost(p), nil
}

func (r *postRepo) List(_ context.Context, f repository.PostFilter) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Post
	for _, p := range r.s.posts {
		if f.UserID != 0 && p.UserID != f.UserID {
			continue
		}
		if f.PlatformID != 0 && p.PlatformID != f.PlatformID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, copyPost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func (r *postRepo) Update(_ context.Context, post *models.Post) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[post.ID]
	if !ok || cur.Status == models.PostStatusPublished {
		return false, nil
	}
	cur.Content = post.Content
	cur.ContentType = post.ContentType
	cur.Hashtags = cloneStrings(post.Hashtags)
	cur.Mentions = cloneStrings(post.Mentions)
	cur.MediaURLs = cloneStrings(post.MediaURLs)
	cur.OGURL = post.OGURL
	cur.UpdatedAt = time.Now()
	return true, nil
}

func (r *postRepo) SetStatus(_ context.Context, id int64, from []models.PostStatus, to models.PostStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[id]
	if !ok || !slices.Contains(from, cur.Status) {
		return false, nil
	}
	cur.Status = to
	cur.UpdatedAt = time.Now()
	return true, nil
}

func (r *postRepo) MarkPublished(_ context.Context, id int64, externalID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[id]
	if !ok || cur.Status == models.PostStatusPublished {
		return false, nil
	}
	cur.Status = models.PostStatusPublished
	cur.ExternalID = externalID
	cur.ErrorMessage = ""
	cur.PublishedAt = &at
	cur.UpdatedAt = at
	return true, nil
}

func (r *postRepo) MarkFailed(_ context.Context, id int64, message string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[id]
	if !ok || cur.Status == models.PostStatusPublished {
		return false, nil
	}
	cur.Status = models.PostStatusFailed
	cur.ErrorMessage = message
	cur.UpdatedAt = time.Now()
	return true, nil
}

func (r *postRepo) Remove(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[id]
	if !ok || cur.Status == models.PostStatusPublished {
		return false, nil
	}
	r.s.deletePost(id)
	return true, nil
}
