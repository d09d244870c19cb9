// Package lifecycle owns every status transition of posts and schedules.
// Callers resolve the entity, the controller authorizes the actor, checks
// the status guards and writes through conditional updates.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/metrics"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/publisher"
	"github.com/maheshrc27/socialflow/internal/repository"
)

type Publisher interface {
	Publish(ctx context.Context, platformType string, creds publisher.Credentials, post *models.Post) (string, error)
}

type CredentialResolver interface {
	Resolve(ctx context.Context, ref string) (map[string]string, error)
}

type Deps struct {
	Posts       repository.PostRepository
	Schedules   repository.ScheduleRepository
	Platforms   repository.PlatformRepository
	Attempts    repository.PublishAttemptRepository
	Credentials CredentialResolver
	Publisher   Publisher

	PublishTimeout time.Duration
	Lease          time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Controller struct {
	posts     repository.PostRepository
	schedules repository.ScheduleRepository
	platforms repository.PlatformRepository
	attempts  repository.PublishAttemptRepository
	creds     CredentialResolver
	publisher Publisher

	publishTimeout time.Duration
	lease          time.Duration
	now            func() time.Time
}

func NewController(d Deps) *Controller {
	c := &Controller{
		posts:          d.Posts,
		schedules:      d.Schedules,
		platforms:      d.Platforms,
		attempts:       d.Attempts,
		creds:          d.Credentials,
		publisher:      d.Publisher,
		publishTimeout: d.PublishTimeout,
		lease:          d.Lease,
		now:            d.Now,
	}
	if c.publishTimeout <= 0 {
		c.publishTimeout = 30 * time.Second
	}
	if c.lease <= 0 {
		c.lease = 5 * time.Minute
	}
	if c.lease <= c.publishTimeout {
		c.lease = c.publishTimeout + time.Minute
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

type PostChanges struct {
	Content     *string
	ContentType *string
	Hashtags    *[]string
	Mentions    *[]string
	MediaURLs   *[]string
	OGURL       *string
}

type ScheduleChanges struct {
	ScheduledAt *time.Time
	Timezone    *string
	Recurrence  *models.Recurrence
	Status      *models.ScheduleStatus
}

type NewSchedule struct {
	ScheduledAt time.Time
	Timezone    string
	Recurrence  models.Recurrence
}

func authorize(actor models.Actor, entity string, id, ownerID int64) error {
	if !actor.CanAccess(ownerID) {
		return fmt.Errorf("%s %d: %w", entity, id, apperror.ErrAccessDenied)
	}
	return nil
}

// PublishPost publishes post now. Adapter failures mark the post failed and
// are returned to the caller.
func (c *Controller) PublishPost(ctx context.Context, actor models.Actor, post *models.Post) (*models.Post, error) {
	if err := authorize(actor, "post", post.ID, post.UserID); err != nil {
		return nil, err
	}
	if !CanTransitionPost(post.Status, models.PostStatusPublished) {
		return nil, apperror.ErrAlreadyPublished
	}
	published, err := c.publish(ctx, post, nil)
	var se *storeError
	if errors.As(err, &se) {
		return nil, se.err
	}
	return published, err
}

func (c *Controller) UpdatePost(ctx context.Context, actor models.Actor, post *models.Post, changes PostChanges) (*models.Post, error) {
	if err := authorize(actor, "post", post.ID, post.UserID); err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished {
		return nil, apperror.ErrImmutablePublished
	}

	updated := *post
	if changes.Content != nil {
		updated.Content = *changes.Content
	}
	if changes.ContentType != nil {
		updated.ContentType = *changes.ContentType
	}
	if changes.Hashtags != nil {
		updated.Hashtags = *changes.Hashtags
	}
	if changes.Mentions != nil {
		updated.Mentions = *changes.Mentions
	}
	if changes.MediaURLs != nil {
		updated.MediaURLs = *changes.MediaURLs
	}
	if changes.OGURL != nil {
		updated.OGURL = *changes.OGURL
	}
	if err := ValidatePostContent(&updated); err != nil {
		return nil, err
	}

	ok, err := c.posts.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, c.postWriteMissed(ctx, post.ID)
	}
	return c.reloadPost(ctx, post.ID)
}

func (c *Controller) DeletePost(ctx context.Context, actor models.Actor, post *models.Post) error {
	if err := authorize(actor, "post", post.ID, post.UserID); err != nil {
		return err
	}
	if post.Status == models.PostStatusPublished {
		return apperror.ErrImmutablePublished
	}
	ok, err := c.posts.Remove(ctx, post.ID)
	if err != nil {
		return err
	}
	if !ok {
		return c.postWriteMissed(ctx, post.ID)
	}
	return nil
}

// postWriteMissed explains why a conditional post write matched no row.
func (c *Controller) postWriteMissed(ctx context.Context, id int64) error {
	cur, err := c.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return apperror.NotFound("post", id)
	}
	return apperror.ErrImmutablePublished
}

// CreateSchedule plans post for publication and moves a draft or failed post to scheduled.
func (c *Controller) CreateSchedule(ctx context.Context, actor models.Actor, post *models.Post, req NewSchedule) (*models.Schedule, error) {
	if err := authorize(actor, "post", post.ID, post.UserID); err != nil {
		return nil, err
	}
	if err := ValidateScheduleTime(req.ScheduledAt, c.now()); err != nil {
		return nil, err
	}
	if err := ValidateRecurrence(req.Recurrence); err != nil {
		return nil, err
	}
	tz, err := NormalizeTimezone(req.Timezone)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished {
		return nil, apperror.ErrAlreadyPublished
	}

	sc := &models.Schedule{
		UserID:      post.UserID,
		PostID:      post.ID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Status:      models.ScheduleStatusPending,
		Timezone:    tz,
		Recurrence:  req.Recurrence,
	}
	id, err := c.schedules.Create(ctx, sc)
	if err != nil {
		return nil, err
	}

	if CanTransitionPost(post.Status, models.PostStatusScheduled) {
		if _, err := c.posts.SetStatus(ctx, post.ID,
			[]models.PostStatus{models.PostStatusDraft, models.PostStatusFailed}, models.PostStatusScheduled); err != nil {
			return nil, err
		}
	}
	return c.reloadSchedule(ctx, id)
}

func (c *Controller) UpdateSchedule(ctx context.Context, actor models.Actor, sc *models.Schedule, changes ScheduleChanges) (*models.Schedule, error) {
	if err := authorize(actor, "schedule", sc.ID, sc.UserID); err != nil {
		return nil, err
	}
	if sc.Status == models.ScheduleStatusCompleted {
		return nil, apperror.ErrImmutableCompletedSchedule
	}

	now := c.now()
	updated := *sc
	if changes.Status != nil && *changes.Status != sc.Status {
		// Users may only cancel; completion and failure belong to the trigger.
		if *changes.Status != models.ScheduleStatusCancelled || !CanTransitionSchedule(sc.Status, *changes.Status) {
			return nil, fmt.Errorf("schedule %s to %s: %w", sc.Status, *changes.Status, apperror.ErrInvalidTransition)
		}
		updated.Status = *changes.Status
	}
	if changes.ScheduledAt != nil {
		if err := ValidateScheduleTime(*changes.ScheduledAt, now); err != nil {
			return nil, err
		}
		updated.ScheduledAt = changes.ScheduledAt.UTC()
	}
	if changes.Recurrence != nil {
		if err := ValidateRecurrence(*changes.Recurrence); err != nil {
			return nil, err
		}
		updated.Recurrence = *changes.Recurrence
	}
	if changes.Timezone != nil {
		tz, err := NormalizeTimezone(*changes.Timezone)
		if err != nil {
			return nil, err
		}
		updated.Timezone = tz
	}

	ok, err := c.schedules.Update(ctx, &updated, sc.Status, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, c.scheduleWriteMissed(ctx, sc.ID)
	}

	if sc.Status == models.ScheduleStatusPending && updated.Status != models.ScheduleStatusPending {
		if err := c.releasePost(ctx, sc.PostID); err != nil {
			return nil, err
		}
	}
	return c.reloadSchedule(ctx, sc.ID)
}

func (c *Controller) CancelSchedule(ctx context.Context, actor models.Actor, sc *models.Schedule) (*models.Schedule, error) {
	cancelled := models.ScheduleStatusCancelled
	return c.UpdateSchedule(ctx, actor, sc, ScheduleChanges{Status: &cancelled})
}

func (c *Controller) DeleteSchedule(ctx context.Context, actor models.Actor, sc *models.Schedule) error {
	if err := authorize(actor, "schedule", sc.ID, sc.UserID); err != nil {
		return err
	}
	if sc.Status == models.ScheduleStatusCompleted {
		return apperror.ErrImmutableCompletedSchedule
	}
	ok, err := c.schedules.Remove(ctx, sc.ID, c.now())
	if err != nil {
		return err
	}
	if !ok {
		return c.scheduleWriteMissed(ctx, sc.ID)
	}
	if sc.Status == models.ScheduleStatusPending {
		return c.releasePost(ctx, sc.PostID)
	}
	return nil
}

func (c *Controller) scheduleWriteMissed(ctx context.Context, id int64) error {
	cur, err := c.schedules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case cur == nil:
		return apperror.NotFound("schedule", id)
	case cur.Status == models.ScheduleStatusCompleted:
		return apperror.ErrImmutableCompletedSchedule
	}
	return fmt.Errorf("schedule %d is being fired or was changed concurrently: %w", id, apperror.ErrConflict)
}

// releasePost returns a scheduled post to draft once nothing is pending for it.
func (c *Controller) releasePost(ctx context.Context, postID int64) error {
	n, err := c.schedules.CountPendingByPostID(ctx, postID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = c.posts.SetStatus(ctx, postID, []models.PostStatus{models.PostStatusScheduled}, models.PostStatusDraft)
	return err
}

// FireSchedule publishes the schedule's post if the schedule is pending and
// due. It is safe to call any number of times, concurrently: the claim lease
// lets exactly one caller move the schedule out of pending. Publishing
// failures are recorded on the schedule, not returned.
func (c *Controller) FireSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	sc, err := c.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, apperror.NotFound("schedule", id)
	}

	now := c.now()
	if sc.Status.Terminal() || sc.ScheduledAt.After(now) {
		metrics.RecordFire("skipped")
		return sc, nil
	}

	token := uuid.NewString()
	claimed, err := c.schedules.Claim(ctx, id, token, now.Add(c.lease), now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		metrics.RecordFire("contended")
		return c.reloadSchedule(ctx, id)
	}

	// The outcome must be written even if the caller gives up.
	writeCtx := context.WithoutCancel(ctx)

	fireErr := c.fire(ctx, sc)
	var se *storeError
	if errors.As(fireErr, &se) {
		// Leave the schedule pending so the next trigger retries it.
		if _, err := c.schedules.Release(writeCtx, id, token); err != nil {
			slog.Info(err.Error())
		}
		metrics.RecordFire("error")
		return nil, se.err
	}
	if fireErr != nil {
		ok, err := c.schedules.Fail(writeCtx, id, token, fireErr.Error(), c.now())
		if err != nil {
			return nil, err
		}
		c.logFinalize("failed", sc, ok, fireErr)
	} else {
		ok, err := c.schedules.Complete(writeCtx, id, token, c.now())
		if err != nil {
			return nil, err
		}
		c.logFinalize("completed", sc, ok, nil)
	}
	return c.reloadSchedule(writeCtx, id)
}

// storeError marks a failure of the entity store, as opposed to a publish
// outcome that belongs on the schedule.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func stored(err error) error {
	if err == nil {
		return nil
	}
	return &storeError{err: err}
}

func (c *Controller) fire(ctx context.Context, sc *models.Schedule) error {
	post, err := c.posts.GetByID(ctx, sc.PostID)
	if err != nil {
		return stored(err)
	}
	if post == nil {
		return apperror.NotFound("post", sc.PostID)
	}

	// A previous holder of this lease may have published before crashing.
	prior, err := c.publishedBy(ctx, post.ID, sc.ID)
	if err != nil {
		return stored(err)
	}
	if prior != nil {
		if post.Status != models.PostStatusPublished {
			if _, err := c.posts.MarkPublished(context.WithoutCancel(ctx), post.ID, prior.ExternalID, prior.CreatedAt); err != nil {
				return stored(err)
			}
		}
		return nil
	}
	if post.Status == models.PostStatusPublished {
		return apperror.ErrAlreadyPublished
	}
	_, err = c.publish(ctx, post, &sc.ID)
	return err
}

// publishedBy returns the successful attempt made for scheduleID, if any.
func (c *Controller) publishedBy(ctx context.Context, postID, scheduleID int64) (*models.PublishAttempt, error) {
	attempts, err := c.attempts.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		if a.ScheduleID != nil && *a.ScheduleID == scheduleID && a.Succeeded() {
			return a, nil
		}
	}
	return nil, nil
}

func (c *Controller) logFinalize(outcome string, sc *models.Schedule, ok bool, cause error) {
	if !ok {
		metrics.RecordFire("contended")
		slog.Warn("schedule lease lost before finalize", "schedule_id", sc.ID, "post_id", sc.PostID, "outcome", outcome)
		return
	}
	metrics.RecordFire(outcome)
	if cause != nil {
		slog.Info("schedule fired", "schedule_id", sc.ID, "post_id", sc.PostID, "outcome", outcome, "error", cause.Error())
		return
	}
	slog.Info("schedule fired", "schedule_id", sc.ID, "post_id", sc.PostID, "outcome", outcome)
}

// publish calls the adapter for post under the publish timeout and records
// the outcome on the post and in the attempt log.
func (c *Controller) publish(ctx context.Context, post *models.Post, scheduleID *int64) (*models.Post, error) {
	platform, err := c.platforms.GetByID(ctx, post.PlatformID)
	if err != nil {
		return nil, stored(err)
	}
	if platform == nil {
		return nil, apperror.NotFound("platform", post.PlatformID)
	}

	writeCtx := context.WithoutCancel(ctx)
	started := time.Now()
	externalID, pubErr := c.callAdapter(ctx, platform, post)

	outcome := "success"
	switch {
	case errors.Is(pubErr, apperror.ErrPublishTimeout):
		outcome = "timeout"
	case pubErr != nil:
		outcome = "failure"
	}
	metrics.RecordPublish(platform.Type, outcome, time.Since(started))

	attempt := &models.PublishAttempt{
		UserID:     post.UserID,
		PostID:     post.ID,
		ScheduleID: scheduleID,
		PlatformID: platform.ID,
		ExternalID: externalID,
		CreatedAt:  c.now(),
	}
	if pubErr != nil {
		attempt.ErrorMessage = pubErr.Error()
	}
	if _, err := c.attempts.Create(writeCtx, attempt); err != nil {
		slog.Info(err.Error())
	}

	if pubErr != nil {
		if _, err := c.posts.MarkFailed(writeCtx, post.ID, pubErr.Error()); err != nil {
			return nil, stored(err)
		}
		return nil, pubErr
	}

	// The content is live from here on, so a store failure must not be
	// reported as a failed publish.
	ok, err := c.posts.MarkPublished(writeCtx, post.ID, externalID, c.now())
	if err != nil {
		return nil, stored(err)
	}
	if !ok {
		slog.Warn("post was published concurrently", "post_id", post.ID, "external_id", externalID)
		return nil, apperror.ErrAlreadyPublished
	}
	return c.reloadPost(writeCtx, post.ID)
}

func (c *Controller) callAdapter(ctx context.Context, platform *models.Platform, post *models.Post) (string, error) {
	if !platform.IsActive {
		return "", &apperror.AdapterError{Platform: platform.Type, Err: apperror.ErrPlatformInactive}
	}
	creds, err := c.creds.Resolve(ctx, platform.CredentialsRef)
	if err != nil {
		return "", &apperror.AdapterError{Platform: platform.Type, Err: err}
	}

	pctx, cancel := context.WithTimeout(ctx, c.publishTimeout)
	defer cancel()

	externalID, err := c.publisher.Publish(pctx, platform.Type, creds, post)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(pctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %w", apperror.ErrPublishTimeout, c.publishTimeout, err)
		}
		var adapterErr *apperror.AdapterError
		if !errors.As(err, &adapterErr) {
			err = &apperror.AdapterError{Platform: platform.Type, Err: err}
		}
		return "", err
	}
	return externalID, nil
}

func (c *Controller) reloadPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := c.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.NotFound("post", id)
	}
	return post, nil
}

func (c *Controller) reloadSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	sc, err := c.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, apperror.NotFound("schedule", id)
	}
	return sc, nil
}
