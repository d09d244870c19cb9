package models

import (
	"fmt"
	"time"
)

type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusFailed    ScheduleStatus = "failed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

func ParseScheduleStatus(s string) (ScheduleStatus, error) {
	switch st := ScheduleStatus(s); st {
	case ScheduleStatusPending, ScheduleStatusCompleted, ScheduleStatusFailed, ScheduleStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown schedule status %q", s)
}

// Terminal reports whether no further transition may leave the status.
func (s ScheduleStatus) Terminal() bool {
	return s != ScheduleStatusPending
}

type Recurrence string

const (
	RecurrenceUnset   Recurrence = ""
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceCustom  Recurrence = "custom"
)

type Schedule struct {
	ID             int64          `db:"id" json:"id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	PostID         int64          `db:"post_id" json:"post_id"`
	ScheduledAt    time.Time      `db:"scheduled_at" json:"scheduled_at"`
	Status         ScheduleStatus `db:"status" json:"status"`
	Timezone       string         `db:"timezone" json:"timezone"`
	Recurrence     Recurrence     `db:"recurrence" json:"recurrence,omitempty"`
	CompletedAt    *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	ErrorMessage   string         `db:"error_message" json:"error_message,omitempty"`
	LeaseToken     string         `db:"lease_token" json:"-"`
	LeaseExpiresAt *time.Time     `db:"lease_expires_at" json:"-"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
