package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

// CredentialRepository stores sealed platform credentials under an opaque reference.
type CredentialRepository interface {
	Save(ctx context.Context, ref string, userID int64, sealed string) error
	Get(ctx context.Context, ref string) (string, bool, error)
	Remove(ctx context.Context, ref string) error
}

type credentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Save(ctx context.Context, ref string, userID int64, sealed string) error {
	query := `
		INSERT INTO platform_credentials (ref, user_id, sealed)
		VALUES ($1, $2, $3)
		ON CONFLICT (ref) DO UPDATE SET sealed = EXCLUDED.sealed
	`
	_, err := r.db.ExecContext(ctx, query, ref, userID, sealed)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, ref string) (string, bool, error) {
	var sealed string
	err := r.db.QueryRowContext(ctx, "SELECT sealed FROM platform_credentials WHERE ref = $1", ref).Scan(&sealed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return sealed, true, nil
}

func (r *credentialRepository) Remove(ctx context.Context, ref string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM platform_credentials WHERE ref = $1", ref)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
