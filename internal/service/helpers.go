package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// endOfTime is the open upper bound for range queries.
var endOfTime = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Page validates skip/limit query values. A zero limit means DefaultPageLimit.
func Page(skip, limit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, apperror.Invalid("skip must not be negative")
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 0 || limit > MaxPageLimit {
		return 0, 0, apperror.Invalid("limit must be between 1 and %d", MaxPageLimit)
	}
	return skip, limit, nil
}

// ownerScope is the user filter for list queries: admins see every owner.
func ownerScope(actor models.Actor) int64 {
	if actor.IsAdmin {
		return 0
	}
	return actor.UserID
}

func loadPlatform(ctx context.Context, repo repository.PlatformRepository, actor models.Actor, id int64) (*models.Platform, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("platform", id)
	}
	if !actor.CanAccess(p.UserID) {
		return nil, fmt.Errorf("platform %d: %w", id, apperror.ErrAccessDenied)
	}
	return p, nil
}

func loadPost(ctx context.Context, repo repository.PostRepository, actor models.Actor, id int64) (*models.Post, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("post", id)
	}
	if !actor.CanAccess(p.UserID) {
		return nil, fmt.Errorf("post %d: %w", id, apperror.ErrAccessDenied)
	}
	return p, nil
}

func loadSchedule(ctx context.Context, repo repository.ScheduleRepository, actor models.Actor, id int64) (*models.Schedule, error) {
	sc, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, apperror.NotFound("schedule", id)
	}
	if !actor.CanAccess(sc.UserID) {
		return nil, fmt.Errorf("schedule %d: %w", id, apperror.ErrAccessDenied)
	}
	return sc, nil
}
