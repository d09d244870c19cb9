// Package memory implements the repository interfaces in process memory.
// Deletes cascade the same way the Postgres foreign keys do.
package memory

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
)

type Store struct {
	mu     sync.Mutex
	nextID int64

	users          map[int64]*models.User
	apiKeys        map[int64]*models.ApiKey
	platforms      map[int64]*models.Platform
	credentials    map[string]credential
	posts          map[int64]*models.Post
	schedules      map[int64]*models.Schedule
	platformMetric map[int64]*models.PlatformMetric
	postMetric     map[int64]*models.PostMetric
	attempts       map[int64]*models.PublishAttempt
}

type credential struct {
	userID int64
	sealed string
}

func NewStore() *Store {
	return &Store{
		users:          make(map[int64]*models.User),
		apiKeys:        make(map[int64]*models.ApiKey),
		platforms:      make(map[int64]*models.Platform),
		credentials:    make(map[string]credential),
		posts:          make(map[int64]*models.Post),
		schedules:      make(map[int64]*models.Schedule),
		platformMetric: make(map[int64]*models.PlatformMetric),
		postMetric:     make(map[int64]*models.PostMetric),
		attempts:       make(map[int64]*models.PublishAttempt),
	}
}

func (s *Store) Users() repository.UserRepository                     { return &userRepo{s} }
func (s *Store) ApiKeys() repository.ApiKeyRepository                 { return &apiKeyRepo{s} }
func (s *Store) Platforms() repository.PlatformRepository             { return &platformRepo{s} }
func (s *Store) Credentials() repository.CredentialRepository         { return &credentialRepo{s} }
func (s *Store) Posts() repository.PostRepository                     { return &postRepo{s} }
func (s *Store) Schedules() repository.ScheduleRepository             { return &scheduleRepo{s} }
func (s *Store) Metrics() repository.MetricRepository                 { return &metricRepo{s} }
func (s *Store) PublishAttempts() repository.PublishAttemptRepository { return &attemptRepo{s} }

// id must be called with mu held.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// The delete helpers must be called with mu held.

func (s *Store) deleteUser(id int64) {
	for _, p := range s.platforms {
		if p.UserID == id {
			s.deletePlatform(p.ID)
		}
	}
	for _, p := range s.posts {
		if p.UserID == id {
			s.deletePost(p.ID)
		}
	}
	for k, sc := range s.schedules {
		if sc.UserID == id {
			delete(s.schedules, k)
		}
	}
	for k, key := range s.apiKeys {
		if key.UserID == id {
			delete(s.apiKeys, k)
		}
	}
	for ref, c := range s.credentials {
		if c.userID == id {
			delete(s.credentials, ref)
		}
	}
	for k, a := range s.attempts {
		if a.UserID == id {
			delete(s.attempts, k)
		}
	}
	delete(s.users, id)
}

func (s *Store) deletePlatform(id int64) {
	for _, p := range s.posts {
		if p.PlatformID == id {
			s.deletePost(p.ID)
		}
	}
	for k, m := range s.platformMetric {
		if m.PlatformID == id {
			delete(s.platformMetric, k)
		}
	}
	delete(s.platforms, id)
}

func (s *Store) deletePost(id int64) {
	for k, sc := range s.schedules {
		if sc.PostID == id {
			delete(s.schedules, k)
		}
	}
	for k, m := range s.postMetric {
		if m.PostID == id {
			delete(s.postMetric, k)
		}
	}
	for k, a := range s.attempts {
		if a.PostID == id {
			delete(s.attempts, k)
		}
	}
	delete(s.posts, id)
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func leaseFree(sc *models.Schedule, now time.Time) bool {
	return sc.LeaseExpiresAt == nil || sc.LeaseExpiresAt.Before(now)
}

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

func cloneStrings(in []string) []string {
	return slices.Clone(in)
}

func equalFoldEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}
