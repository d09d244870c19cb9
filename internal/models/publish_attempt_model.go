package models

import "time"

// PublishAttempt records one call to a platform publishing adapter.
type PublishAttempt struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	ScheduleID   *int64    `db:"schedule_id" json:"schedule_id,omitempty"`
	PlatformID   int64     `db:"platform_id" json:"platform_id"`
	ExternalID   string    `db:"external_id" json:"external_id,omitempty"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (a *PublishAttempt) Succeeded() bool {
	return a.ErrorMessage == ""
}
