package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
)

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, false, nil
	}
	c := *u
	return &c, true, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if equalFoldEmail(u.Email, email) {
			c := *u
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (r *userRepo) List(_ context.Context, offset, limit int) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	sortByID(out, func(u *models.User) int64 { return u.ID })
	return page(out, offset, limit), nil
}

func (r *userRepo) emailTaken(email string, except int64) bool {
	for _, u := range r.s.users {
		if u.ID != except && equalFoldEmail(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, user *models.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(user.Email, 0) {
		return 0, fmt.Errorf("%w: email %s already registered", apperror.ErrConflict, user.Email)
	}
	c := *user
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.users[c.ID] = &c
	return c.ID, nil
}

func (r *userRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[user.ID]
	if !ok {
		return nil
	}
	if r.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("%w: email %s already registered", apperror.ErrConflict, user.Email)
	}
	c := *user
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now()
	r.s.users[c.ID] = &c
	return nil
}

func (r *userRepo) Remove(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deleteUser(id)
	return nil
}

type apiKeyRepo struct{ s *Store }

func (r *apiKeyRepo) GetByKey(_ context.Context, apiKey string) (int64, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, k := range r.s.apiKeys {
		if k.ApiKey == apiKey {
			return k.UserID, true, nil
		}
	}
	return 0, false, nil
}

func (r *apiKeyRepo) GetByUserID(_ context.Context, userID int64) ([]*models.ApiKey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ApiKey
	for _, k := range r.s.apiKeys {
		if k.UserID == userID {
			c := *k
			out = append(out, &c)
		}
	}
	sortByID(out, func(k *models.ApiKey) int64 { return k.ID })
	return out, nil
}

func (r *apiKeyRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	keys, err := r.GetByUserID(ctx, userID)
	return len(keys), err
}

func (r *apiKeyRepo) Create(_ context.Context, apiKey *models.ApiKey) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *apiKey
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	r.s.apiKeys[c.ID] = &c
	return c.ID, nil
}

func (r *apiKeyRepo) CheckByUserID(_ context.Context, keyID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k, ok := r.s.apiKeys[keyID]
	return ok && k.UserID == userID, nil
}

func (r *apiKeyRepo) Remove(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.apiKeys, id)
	return nil
}
