package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/socialflow/internal/credentials"
	"github.com/maheshrc27/socialflow/internal/lifecycle"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/publisher"
	"github.com/maheshrc27/socialflow/internal/repository/memory"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) Upload(_ context.Context, key string, body []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	f.types[key] = contentType
	return "https://cdn.example/" + key, nil
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	fires map[int64]time.Time
	err   error
}

func (f *fakeEnqueuer) EnqueueFire(_ context.Context, scheduleID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.fires == nil {
		f.fires = map[int64]time.Time{}
	}
	f.fires[scheduleID] = at
	return nil
}

type env struct {
	store    *memory.Store
	vault    *credentials.Vault
	ctrl     *lifecycle.Controller
	owner    models.Actor
	other    models.Actor
	admin    models.Actor
	platform *models.Platform
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{store: memory.NewStore()}

	var err error
	e.vault, err = credentials.NewVault(e.store.Credentials(), "0123456789abcdef")
	require.NoError(t, err)

	registry := publisher.NewRegistry()
	registry.Register(models.PlatformTiktok, publisher.AdapterFunc(func(context.Context, publisher.Credentials, *models.Post) (string, error) {
		return "ext-1", nil
	}))
	e.ctrl = lifecycle.NewController(lifecycle.Deps{
		Posts:          e.store.Posts(),
		Schedules:      e.store.Schedules(),
		Platforms:      e.store.Platforms(),
		Attempts:       e.store.PublishAttempts(),
		Credentials:    e.vault,
		Publisher:      registry,
		PublishTimeout: time.Second,
		Lease:          time.Minute,
	})

	e.owner = e.user(t, "owner@example.com", false)
	e.other = e.user(t, "other@example.com", false)
	e.admin = e.user(t, "admin@example.com", true)

	ps := NewPlatformService(e.store.Platforms(), e.store.Posts(), e.store.Metrics(), e.vault)
	e.platform, err = ps.Create(ctx, e.owner, transfer.CreatePlatformRequest{
		Name: "main", Type: "tiktok",
		Credentials: map[string]string{"client_key": "ck", "client_secret": "cs", "access_token": "tok"},
	})
	require.NoError(t, err)
	return e
}

func (e *env) user(t *testing.T, email string, admin bool) models.Actor {
	t.Helper()
	id, err := e.store.Users().Create(context.Background(), &models.User{Email: email, IsActive: true, IsAdmin: admin})
	require.NoError(t, err)
	return models.Actor{UserID: id, IsAdmin: admin}
}

func (e *env) posts() PostService {
	return NewPostService(e.store.Posts(), e.store.Platforms(), e.store.Metrics(), e.store.PublishAttempts(), e.ctrl)
}

func (e *env) draft(t *testing.T, content string) *models.Post {
	t.Helper()
	p, err := e.posts().CreatePost(context.Background(), e.owner, transfer.CreatePostRequest{
		PlatformID: e.platform.ID, Content: content, ContentType: "text",
	})
	require.NoError(t, err)
	return p
}
