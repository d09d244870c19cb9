package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type ScheduleFilter struct {
	UserID     int64 // 0 for every owner
	PlatformID int64
	Status     models.ScheduleStatus
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

// ScheduleRepository persists schedules. Writes that change state are
// conditional and report whether a row matched.
type ScheduleRepository interface {
	Create(ctx context.Context, s *models.Schedule) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	List(ctx context.Context, f ScheduleFilter) ([]*models.Schedule, error)
	// ListDue returns pending schedules at or before now whose lease is free or expired.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Schedule, error)
	CountPendingByPostID(ctx context.Context, postID int64) (int, error)
	// Update matches only while the row is still in status expected and not leased.
	Update(ctx context.Context, s *models.Schedule, expected models.ScheduleStatus, now time.Time) (bool, error)
	// Claim matches only a pending, due schedule whose lease is free or expired.
	Claim(ctx context.Context, id int64, token string, until, now time.Time) (bool, error)
	// Release drops the lease held under token and leaves the schedule pending.
	Release(ctx context.Context, id int64, token string) (bool, error)
	Complete(ctx context.Context, id int64, token string, at time.Time) (bool, error)
	Fail(ctx context.Context, id int64, token, message string, at time.Time) (bool, error)
	Remove(ctx context.Context, id int64, now time.Time) (bool, error)
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `s.id, s.user_id, s.post_id, s.scheduled_at, s.status, s.timezone, s.recurrence,
	s.completed_at, s.error_message, s.lease_token, s.lease_expires_at, s.created_at, s.updated_at`

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var s models.Schedule
	err := row.Scan(&s.ID, &s.UserID, &s.PostID, &s.ScheduledAt, &s.Status, &s.Timezone, &s.Recurrence,
		&s.CompletedAt, &s.ErrorMessage, &s.LeaseToken, &s.LeaseExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) Create(ctx context.Context, s *models.Schedule) (int64, error) {
	query := `
		INSERT INTO schedules (user_id, post_id, scheduled_at, status, timezone, recurrence)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.PostID, s.ScheduledAt, s.Status, s.Timezone, s.Recurrence).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, mapWriteError(err)
	}
	return id, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	s, err := scanSchedule(r.db.QueryRowContext(ctx, "SELECT "+scheduleColumns+" FROM schedules s WHERE s.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return s, nil
}

func (r *scheduleRepository) List(ctx context.Context, f ScheduleFilter) ([]*models.Schedule, error) {
	query := "SELECT " + scheduleColumns + ` FROM schedules s
		JOIN posts p ON p.id = s.post_id
		WHERE ($1 = 0 OR s.user_id = $1)
		AND ($2 = 0 OR p.platform_id = $2)
		AND ($3 = '' OR s.status = $3)
		AND ($4::timestamptz IS NULL OR s.scheduled_at >= $4)
		AND ($5::timestamptz IS NULL OR s.scheduled_at <= $5)
		ORDER BY s.scheduled_at, s.id
		OFFSET $6 LIMIT NULLIF($7, 0)`
	return r.list(ctx, query, f.UserID, f.PlatformID, string(f.Status), f.From, f.To, f.Offset, f.Limit)
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Schedule, error) {
	query := "SELECT " + scheduleColumns + ` FROM schedules s
		WHERE s.status = 'pending'
		AND s.scheduled_at <= $1
		AND (s.lease_expires_at IS NULL OR s.lease_expires_at < $1)
		ORDER BY s.scheduled_at, s.id
		LIMIT NULLIF($2, 0)`
	return r.list(ctx, query, now, limit)
}

func (r *scheduleRepository) list(ctx context.Context, query string, args ...any) ([]*models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *scheduleRepository) CountPendingByPostID(ctx context.Context, postID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM schedules WHERE post_id = $1 AND status = 'pending'", postID).Scan(&n)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

func (r *scheduleRepository) Update(ctx context.Context, s *models.Schedule, expected models.ScheduleStatus, now time.Time) (bool, error) {
	query := `
		UPDATE schedules
		SET scheduled_at = $1,
			status = $2,
			timezone = $3,
			recurrence = $4,
			updated_at = $5
		WHERE id = $6
		AND status = $7
		AND status <> 'completed'
		AND (lease_expires_at IS NULL OR lease_expires_at < $5)
	`
	return r.exec(ctx, query, s.ScheduledAt, s.Status, s.Timezone, s.Recurrence, now, s.ID, expected)
}

// Claim takes the firing lease on a pending schedule.
func (r *scheduleRepository) Claim(ctx context.Context, id int64, token string, until, now time.Time) (bool, error) {
	query := `
		UPDATE schedules
		SET lease_token = $1,
			lease_expires_at = $2
		WHERE id = $3
		AND status = 'pending'
		AND scheduled_at <= $4
		AND (lease_expires_at IS NULL OR lease_expires_at < $4)
	`
	return r.exec(ctx, query, token, until, id, now)
}

func (r *scheduleRepository) Release(ctx context.Context, id int64, token string) (bool, error) {
	query := `
		UPDATE schedules
		SET lease_expires_at = NULL
		WHERE id = $1 AND status = 'pending' AND lease_token = $2
	`
	return r.exec(ctx, query, id, token)
}

func (r *scheduleRepository) Complete(ctx context.Context, id int64, token string, at time.Time) (bool, error) {
	query := `
		UPDATE schedules
		SET status = 'completed',
			completed_at = $1,
			error_message = '',
			lease_expires_at = NULL,
			updated_at = $1
		WHERE id = $2 AND status = 'pending' AND lease_token = $3
	`
	return r.exec(ctx, query, at, id, token)
}

func (r *scheduleRepository) Fail(ctx context.Context, id int64, token, message string, at time.Time) (bool, error) {
	query := `
		UPDATE schedules
		SET status = 'failed',
			error_message = $1,
			lease_expires_at = NULL,
			updated_at = $2
		WHERE id = $3 AND status = 'pending' AND lease_token = $4
	`
	return r.exec(ctx, query, message, at, id, token)
}

func (r *scheduleRepository) Remove(ctx context.Context, id int64, now time.Time) (bool, error) {
	query := `
		DELETE FROM schedules
		WHERE id = $1
		AND status <> 'completed'
		AND (lease_expires_at IS NULL OR lease_expires_at < $2)
	`
	return r.exec(ctx, query, id, now)
}

func (r *scheduleRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected(res)
}
