package memory

import (
	"context"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type platformRepo struct{ s *Store }

func (r *platformRepo) Create(_ context.Context, p *models.Platform) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.platforms[c.ID] = &c
	return c.ID, nil
}

func (r *platformRepo) GetByID(_ context.Context, id int64) (*models.Platform, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.platforms[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *platformRepo) ListByUserID(_ context.Context, userID int64, offset, limit int) ([]*models.Platform, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Platform
	for _, p := range r.s.platforms {
		if userID == 0 || p.UserID == userID {
			c := *p
			out = append(out, &c)
		}
	}
	sortByID(out, func(p *models.Platform) int64 { return p.ID })
	return page(out, offset, limit), nil
}

func (r *platformRepo) Update(_ context.Context, p *models.Platform) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.platforms[p.ID]
	if !ok {
		return nil
	}
	cur.Name = p.Name
	cur.Type = p.Type
	cur.Description = p.Description
	cur.CredentialsRef = p.CredentialsRef
	cur.IsActive = p.IsActive
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *platformRepo) TouchLastSync(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.platforms[id]; ok {
		p.LastSync = &at
	}
	return nil
}

func (r *platformRepo) Remove(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deletePlatform(id)
	return nil
}

type credentialRepo struct{ s *Store }

func (r *credentialRepo) Save(_ context.Context, ref string, userID int64, sealed string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.credentials[ref] = credential{userID: userID, sealed: sealed}
	return nil
}

func (r *credentialRepo) Get(_ context.Context, ref string) (string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.credentials[ref]
	return c.sealed, ok, nil
}

func (r *credentialRepo) Remove(_ context.Context, ref string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.credentials, ref)
	return nil
}
