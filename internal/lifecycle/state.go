package lifecycle

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
)

const (
	MaxContentLength = 5000
	DefaultTimezone  = "UTC"
)

// Nothing leaves published.
var postTransitions = map[models.PostStatus][]models.PostStatus{
	models.PostStatusDraft:     {models.PostStatusScheduled, models.PostStatusPublished, models.PostStatusFailed},
	models.PostStatusScheduled: {models.PostStatusDraft, models.PostStatusPublished, models.PostStatusFailed},
	models.PostStatusFailed:    {models.PostStatusScheduled, models.PostStatusPublished, models.PostStatusFailed},
}

// Only pending has outgoing edges.
var scheduleTransitions = map[models.ScheduleStatus][]models.ScheduleStatus{
	models.ScheduleStatusPending: {models.ScheduleStatusCompleted, models.ScheduleStatusFailed, models.ScheduleStatusCancelled},
}

func CanTransitionPost(from, to models.PostStatus) bool {
	return slices.Contains(postTransitions[from], to)
}

func CanTransitionSchedule(from, to models.ScheduleStatus) bool {
	return slices.Contains(scheduleTransitions[from], to)
}

// ValidateScheduleTime requires at to be strictly after now.
func ValidateScheduleTime(at, now time.Time) error {
	if !at.After(now) {
		return apperror.ErrPastScheduleTime
	}
	return nil
}

func ValidateRecurrence(r models.Recurrence) error {
	switch r {
	case models.RecurrenceUnset, models.RecurrenceNone, models.RecurrenceDaily,
		models.RecurrenceWeekly, models.RecurrenceMonthly, models.RecurrenceCustom:
		return nil
	}
	return apperror.ErrInvalidRecurrence
}

// NormalizeTimezone checks tz against the IANA database; empty means UTC.
func NormalizeTimezone(tz string) (string, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return DefaultTimezone, nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "", apperror.Invalid("unknown timezone %q", tz)
	}
	return tz, nil
}

func ValidatePostContent(p *models.Post) error {
	n := utf8.RuneCountInString(strings.TrimSpace(p.Content))
	if n == 0 {
		return apperror.Invalid("content is required")
	}
	if n > MaxContentLength {
		return apperror.Invalid("content must be at most %d characters", MaxContentLength)
	}
	if !slices.Contains(models.ContentTypes, p.ContentType) {
		return apperror.Invalid("content_type must be one of %s", strings.Join(models.ContentTypes, ", "))
	}
	return nil
}
