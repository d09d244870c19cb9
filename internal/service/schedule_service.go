package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/lifecycle"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

const (
	DefaultUpcomingDays = 7
	MaxUpcomingDays     = 90
)

// Enqueuer hands a pending schedule to the delayed task queue.
type Enqueuer interface {
	EnqueueFire(ctx context.Context, scheduleID int64, at time.Time) error
}

type ScheduleService interface {
	Create(ctx context.Context, actor models.Actor, req transfer.CreateScheduleRequest) (*models.Schedule, error)
	List(ctx context.Context, actor models.Actor, q transfer.ScheduleQuery) ([]*models.Schedule, error)
	Upcoming(ctx context.Context, actor models.Actor, days int) ([]*transfer.ScheduleDetail, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*transfer.ScheduleDetail, error)
	Update(ctx context.Context, actor models.Actor, id int64, req transfer.UpdateScheduleRequest) (*models.Schedule, error)
	Cancel(ctx context.Context, actor models.Actor, id int64) (*models.Schedule, error)
	Remove(ctx context.Context, actor models.Actor, id int64) error
}

type scheduleService struct {
	sr   repository.ScheduleRepository
	pr   repository.PostRepository
	pl   repository.PlatformRepository
	ctrl *lifecycle.Controller
	q    Enqueuer
	now  func() time.Time
}

// NewScheduleService wires the schedule API. q may be nil, in which case
// only the due-schedule sweeper fires schedules.
func NewScheduleService(
	sr repository.ScheduleRepository,
	pr repository.PostRepository,
	pl repository.PlatformRepository,
	ctrl *lifecycle.Controller,
	q Enqueuer) ScheduleService {
	return &scheduleService{
		sr:   sr,
		pr:   pr,
		pl:   pl,
		ctrl: ctrl,
		q:    q,
		now:  time.Now,
	}
}

func (s *scheduleService) enqueue(ctx context.Context, sc *models.Schedule) {
	if s.q == nil || sc.Status != models.ScheduleStatusPending {
		return
	}
	if err := s.q.EnqueueFire(ctx, sc.ID, sc.ScheduledAt); err != nil {
		slog.Warn("enqueue schedule failed, leaving it to the sweeper", "schedule_id", sc.ID, "error", err.Error())
	}
}

func (s *scheduleService) Create(ctx context.Context, actor models.Actor, req transfer.CreateScheduleRequest) (*models.Schedule, error) {
	post, err := loadPost(ctx, s.pr, actor, req.PostID)
	if err != nil {
		return nil, err
	}

	sc, err := s.ctrl.CreateSchedule(ctx, actor, post, lifecycle.NewSchedule{
		ScheduledAt: req.ScheduledAt,
		Timezone:    req.Timezone,
		Recurrence:  models.Recurrence(req.Recurrence),
	})
	if err != nil {
		return nil, err
	}
	s.enqueue(ctx, sc)
	return sc, nil
}

func (s *scheduleService) List(ctx context.Context, actor models.Actor, q transfer.ScheduleQuery) ([]*models.Schedule, error) {
	skip, limit, err := Page(q.Skip, q.Limit)
	if err != nil {
		return nil, err
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, apperror.Invalid("to_date must not be before from_date")
	}

	f := repository.ScheduleFilter{
		UserID:     ownerScope(actor),
		PlatformID: q.PlatformID,
		From:       q.From,
		To:         q.To,
		Offset:     skip,
		Limit:      limit,
	}
	if q.Status != "" {
		f.Status, err = models.ParseScheduleStatus(q.Status)
		if err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
	}
	return s.sr.List(ctx, f)
}

// Upcoming lists the actor's pending schedules due within the next days.
func (s *scheduleService) Upcoming(ctx context.Context, actor models.Actor, days int) ([]*transfer.ScheduleDetail, error) {
	if days == 0 {
		days = DefaultUpcomingDays
	}
	if days < 1 || days > MaxUpcomingDays {
		return nil, apperror.Invalid("days must be between 1 and %d", MaxUpcomingDays)
	}

	from := s.now()
	to := from.Add(time.Duration(days) * 24 * time.Hour)
	schedules, err := s.sr.List(ctx, repository.ScheduleFilter{
		UserID: ownerScope(actor),
		Status: models.ScheduleStatusPending,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*transfer.ScheduleDetail, 0, len(schedules))
	for _, sc := range schedules {
		detail, err := s.detail(ctx, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, nil
}

func (s *scheduleService) Get(ctx context.Context, actor models.Actor, id int64) (*transfer.ScheduleDetail, error) {
	sc, err := loadSchedule(ctx, s.sr, actor, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, sc)
}

func (s *scheduleService) detail(ctx context.Context, sc *models.Schedule) (*transfer.ScheduleDetail, error) {
	detail := &transfer.ScheduleDetail{Schedule: sc}

	post, err := s.pr.GetByID(ctx, sc.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return detail, nil
	}
	detail.Post = post

	platform, err := s.pl.GetByID(ctx, post.PlatformID)
	if err != nil {
		return nil, err
	}
	if platform != nil {
		detail.PlatformName = platform.Name
		detail.PlatformType = platform.Type
	}
	return detail, nil
}

func (s *scheduleService) Update(ctx context.Context, actor models.Actor, id int64, req transfer.UpdateScheduleRequest) (*models.Schedule, error) {
	sc, err := loadSchedule(ctx, s.sr, actor, id)
	if err != nil {
		return nil, err
	}

	changes := lifecycle.ScheduleChanges{
		ScheduledAt: req.ScheduledAt,
		Timezone:    req.Timezone,
	}
	if req.Recurrence != nil {
		r := models.Recurrence(*req.Recurrence)
		changes.Recurrence = &r
	}
	if req.Status != nil {
		st, err := models.ParseScheduleStatus(*req.Status)
		if err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
		changes.Status = &st
	}

	updated, err := s.ctrl.UpdateSchedule(ctx, actor, sc, changes)
	if err != nil {
		return nil, err
	}
	if req.ScheduledAt != nil {
		s.enqueue(ctx, updated)
	}
	return updated, nil
}

func (s *scheduleService) Cancel(ctx context.Context, actor models.Actor, id int64) (*models.Schedule, error) {
	sc, err := loadSchedule(ctx, s.sr, actor, id)
	if err != nil {
		return nil, err
	}
	return s.ctrl.CancelSchedule(ctx, actor, sc)
}

func (s *scheduleService) Remove(ctx context.Context, actor models.Actor, id int64) error {
	sc, err := loadSchedule(ctx, s.sr, actor, id)
	if err != nil {
		return err
	}
	return s.ctrl.DeleteSchedule(ctx, actor, sc)
}
