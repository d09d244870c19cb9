package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/publisher"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

// CredentialStore seals platform credentials behind an opaque reference.
type CredentialStore interface {
	Store(ctx context.Context, userID int64, creds map[string]string) (string, error)
	Replace(ctx context.Context, ref string, userID int64, creds map[string]string) error
	Resolve(ctx context.Context, ref string) (map[string]string, error)
	Remove(ctx context.Context, ref string) error
}

type PlatformService interface {
	Create(ctx context.Context, actor models.Actor, req transfer.CreatePlatformRequest) (*models.Platform, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*models.Platform, error)
	List(ctx context.Context, actor models.Actor, skip, limit int) ([]*models.Platform, error)
	Update(ctx context.Context, actor models.Actor, id int64, req transfer.UpdatePlatformRequest) (*models.Platform, error)
	// Delete removes the platform with its posts, schedules and metrics.
	Delete(ctx context.Context, actor models.Actor, id int64) error
	Verify(ctx context.Context, actor models.Actor, id int64) (*transfer.VerifyPlatformResponse, error)
	Stats(ctx context.Context, actor models.Actor, id int64) (*transfer.PlatformStats, error)
	RecordMetric(ctx context.Context, actor models.Actor, id int64, req transfer.PlatformMetricRequest) (*models.PlatformMetric, error)
}

type platformService struct {
	p     repository.PlatformRepository
	posts repository.PostRepository
	m     repository.MetricRepository
	vault CredentialStore
	now   func() time.Time
}

func NewPlatformService(p repository.PlatformRepository, posts repository.PostRepository, m repository.MetricRepository, vault CredentialStore) PlatformService {
	return &platformService{
		p:     p,
		posts: posts,
		m:     m,
		vault: vault,
		now:   time.Now,
	}
}

func (s *platformService) Create(ctx context.Context, actor models.Actor, req transfer.CreatePlatformRequest) (*models.Platform, error) {
	name := strings.TrimSpace(req.Name)
	platformType := strings.ToLower(strings.TrimSpace(req.Type))
	if name == "" || platformType == "" {
		return nil, apperror.Invalid("name and type are required")
	}

	ref := ""
	if len(req.Credentials) > 0 {
		var err error
		ref, err = s.vault.Store(ctx, actor.UserID, req.Credentials)
		if err != nil {
			return nil, err
		}
	}

	platform := &models.Platform{
		UserID:         actor.UserID,
		Name:           name,
		Type:           platformType,
		Description:    strings.TrimSpace(req.Description),
		CredentialsRef: ref,
		IsActive:       req.IsActive == nil || *req.IsActive,
	}
	id, err := s.p.Create(ctx, platform)
	if err != nil {
		if ref != "" {
			if rmErr := s.vault.Remove(ctx, ref); rmErr != nil {
				slog.Info(rmErr.Error())
			}
		}
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

func (s *platformService) Get(ctx context.Context, actor models.Actor, id int64) (*models.Platform, error) {
	return loadPlatform(ctx, s.p, actor, id)
}

func (s *platformService) List(ctx context.Context, actor models.Actor, skip, limit int) ([]*models.Platform, error) {
	skip, limit, err := Page(skip, limit)
	if err != nil {
		return nil, err
	}
	return s.p.ListByUserID(ctx, ownerScope(actor), skip, limit)
}

func (s *platformService) Update(ctx context.Context, actor models.Actor, id int64, req transfer.UpdatePlatformRequest) (*models.Platform, error) {
	platform, err := loadPlatform(ctx, s.p, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Invalid("name must not be empty")
		}
		platform.Name = name
	}
	if req.Description != nil {
		platform.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		platform.IsActive = *req.IsActive
	}
	if req.Credentials != nil {
		if platform.CredentialsRef == "" {
			platform.CredentialsRef, err = s.vault.Store(ctx, platform.UserID, req.Credentials)
		} else {
			err = s.vault.Replace(ctx, platform.CredentialsRef, platform.UserID, req.Credentials)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.p.Update(ctx, platform); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

func (s *platformService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	platform, err := loadPlatform(ctx, s.p, actor, id)
	if err != nil {
		return err
	}
	if err := s.p.Remove(ctx, id); err != nil {
		return err
	}
	if platform.CredentialsRef != "" {
		if err := s.vault.Remove(ctx, platform.CredentialsRef); err != nil {
			slog.Info(err.Error())
		}
	}
	return nil
}

// Verify checks that the stored credentials carry every key the platform
// type requires. It does not call the platform.
func (s *platformService) Verify(ctx context.Context, actor models.Actor, id int64) (*transfer.VerifyPlatformResponse, error) {
	platform, err := loadPlatform(ctx, s.p, actor, id)
	if err != nil {
		return nil, err
	}
	creds, err := s.vault.Resolve(ctx, platform.CredentialsRef)
	if err != nil {
		return nil, err
	}

	resp := &transfer.VerifyPlatformResponse{
		PlatformID:  platform.ID,
		Credentials: publisher.Redact(creds),
	}
	if err := publisher.ValidateCredentials(platform.Type, creds); err != nil {
		resp.Message = err.Error()
		return resp, nil
	}
	if err := s.p.TouchLastSync(ctx, platform.ID, s.now()); err != nil {
		return nil, err
	}
	resp.Valid = true
	resp.Message = fmt.Sprintf("%s credentials are complete", platform.Type)
	return resp, nil
}

func (s *platformService) Stats(ctx context.Context, actor models.Actor, id int64) (*transfer.PlatformStats, error) {
	platform, err := loadPlatform(ctx, s.p, actor, id)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, repository.PostFilter{PlatformID: id})
	if err != nil {
		return nil, err
	}

	stats := &transfer.PlatformStats{
		PlatformID: id,
		TotalPosts: len(posts),
		LastSync:   platform.LastSync,
	}
	for _, p := range posts {
		switch p.Status {
		case models.PostStatusDraft:
			stats.DraftPosts++
		case models.PostStatusScheduled:
			stats.ScheduledPosts++
		case models.PostStatusPublished:
			stats.PublishedPosts++
		case models.PostStatusFailed:
			stats.FailedPosts++
		}
	}

	snapshots, err := s.m.ListPlatformMetrics(ctx, id, time.Time{}, endOfTime)
	if err != nil {
		return nil, err
	}
	if n := len(snapshots); n > 0 {
		stats.Latest = snapshots[n-1]
	}
	return stats, nil
}

func (s *platformService) RecordMetric(ctx context.Context, actor models.Actor, id int64, req transfer.PlatformMetricRequest) (*models.PlatformMetric, error) {
	if _, err := loadPlatform(ctx, s.p, actor, id); err != nil {
		return nil, err
	}

	at := s.now()
	if req.Date != nil {
		at = *req.Date
	}
	m := &models.PlatformMetric{
		PlatformID:     id,
		Date:           at.UTC(),
		FollowersCount: req.FollowersCount,
		FollowingCount: req.FollowingCount,
		PostsCount:     req.PostsCount,
		EngagementRate: req.EngagementRate,
		Impressions:    req.Impressions,
		Reach:          req.Reach,
		Likes:          req.Likes,
		Comments:       req.Comments,
		Shares:         req.Shares,
		Clicks:         req.Clicks,
		Demographics:   req.Demographics,
	}

	var err error
	m.ID, err = s.m.CreatePlatformMetric(ctx, m)
	if err != nil {
		return nil, err
	}
	if err := s.p.TouchLastSync(ctx, id, s.now()); err != nil {
		return nil, err
	}
	return m, nil
}
