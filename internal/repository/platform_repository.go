package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type PlatformRepository interface {
	Create(ctx context.Context, p *models.Platform) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Platform, error)
	// ListByUserID lists every platform when userID is 0.
	ListByUserID(ctx context.Context, userID int64, offset, limit int) ([]*models.Platform, error)
	Update(ctx context.Context, p *models.Platform) error
	TouchLastSync(ctx context.Context, id int64, at time.Time) error
	Remove(ctx context.Context, id int64) error
}

type platformRepository struct {
	db *sql.DB
}

func NewPlatformRepository(db *sql.DB) PlatformRepository {
	return &platformRepository{db: db}
}

const platformColumns = "id, user_id, name, type, description, credentials_ref, is_active, last_sync, created_at, updated_at"

func scanPlatform(row rowScanner) (*models.Platform, error) {
	var p models.Platform
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Type, &p.Description, &p.CredentialsRef,
		&p.IsActive, &p.LastSync, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *platformRepository) Create(ctx context.Context, p *models.Platform) (int64, error) {
	query := `
		INSERT INTO platforms (user_id, name, type, description, credentials_ref, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Name, p.Type, p.Description, p.CredentialsRef, p.IsActive).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, mapWriteError(err)
	}
	return id, nil
}

func (r *platformRepository) GetByID(ctx context.Context, id int64) (*models.Platform, error) {
	p, err := scanPlatform(r.db.QueryRowContext(ctx, "SELECT "+platformColumns+" FROM platforms WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return p, nil
}

func (r *platformRepository) ListByUserID(ctx context.Context, userID int64, offset, limit int) ([]*models.Platform, error) {
	query := "SELECT " + platformColumns + " FROM platforms WHERE ($1 = 0 OR user_id = $1) ORDER BY id OFFSET $2 LIMIT NULLIF($3, 0)"
	rows, err := r.db.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var platforms []*models.Platform
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

func (r *platformRepository) Update(ctx context.Context, p *models.Platform) error {
	query := `
		UPDATE platforms
		SET name = $1,
			type = $2,
			description = $3,
			credentials_ref = $4,
			is_active = $5,
			updated_at = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.Type, p.Description, p.CredentialsRef, p.IsActive, time.Now(), p.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *platformRepository) TouchLastSync(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE platforms SET last_sync = $1 WHERE id = $2", at, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Remove deletes the platform; posts, their schedules and metrics cascade.
func (r *platformRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM platforms WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
