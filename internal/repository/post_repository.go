package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/socialflow/internal/models"
)

type PostFilter struct {
	UserID     int64 // 0 for every owner
	PlatformID int64
	Status     models.PostStatus
	Offset     int
	Limit      int
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, f PostFilter) ([]*models.Post, error)
	// Update writes the editable content fields unless the post is published.
	Update(ctx context.Context, post *models.Post) (bool, error)
	SetStatus(ctx context.Context, id int64, from []models.PostStatus, to models.PostStatus) (bool, error)
	MarkPublished(ctx context.Context, id int64, externalID string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int64, message string) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, platform_id, content, content_type, hashtags, mentions, media_urls,
	og_url, status, external_id, error_message, created_at, updated_at, published_at`

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.UserID, &p.PlatformID, &p.Content, &p.ContentType,
		pq.Array(&p.Hashtags), pq.Array(&p.Mentions), pq.Array(&p.MediaURLs),
		&p.OGURL, &p.Status, &p.ExternalID, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, platform_id, content, content_type, hashtags, mentions, media_urls, og_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, post.UserID, post.PlatformID, post.Content, post.ContentType,
		pq.Array(post.Hashtags), pq.Array(post.Mentions), pq.Array(post.MediaURLs), post.OGURL, post.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, mapWriteError(err)
	}
	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, f PostFilter) ([]*models.Post, error) {
	query := "SELECT " + postColumns + ` FROM posts
		WHERE ($1 = 0 OR user_id = $1)
		AND ($2 = 0 OR platform_id = $2)
		AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC, id DESC
		OFFSET $4 LIMIT NULLIF($5, 0)`
	rows, err := r.db.QueryContext(ctx, query, f.UserID, f.PlatformID, string(f.Status), f.Offset, f.Limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) (bool, error) {
	query := `
		UPDATE posts
		SET content = $1,
			content_type = $2,
			hashtags = $3,
			mentions = $4,
			media_urls = $5,
			og_url = $6,
			updated_at = $7
		WHERE id = $8 AND status <> 'published'
	`
	return r.exec(ctx, query, post.Content, post.ContentType, pq.Array(post.Hashtags), pq.Array(post.Mentions),
		pq.Array(post.MediaURLs), post.OGURL, time.Now(), post.ID)
}

func (r *postRepository) SetStatus(ctx context.Context, id int64, from []models.PostStatus, to models.PostStatus) (bool, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	query := `UPDATE posts SET status = $1, updated_at = $2 WHERE id = $3 AND status = ANY($4)`
	return r.exec(ctx, query, to, time.Now(), id, pq.Array(states))
}

func (r *postRepository) MarkPublished(ctx context.Context, id int64, externalID string, at time.Time) (bool, error) {
	query := `
		UPDATE posts
		SET status = 'published',
			external_id = $1,
			error_message = '',
			published_at = $2,
			updated_at = $2
		WHERE id = $3 AND status <> 'published'
	`
	return r.exec(ctx, query, externalID, at, id)
}

func (r *postRepository) MarkFailed(ctx context.Context, id int64, message string) (bool, error) {
	query := `
		UPDATE posts
		SET status = 'failed',
			error_message = $1,
			updated_at = $2
		WHERE id = $3 AND status <> 'published'
	`
	return r.exec(ctx, query, message, time.Now(), id)
}

// Remove deletes an unpublished post together with its schedules and metrics.
func (r *postRepository) Remove(ctx context.Context, id int64) (bool, error) {
	return r.exec(ctx, `DELETE FROM posts WHERE id = $1 AND status <> 'published'`, id)
}

func (r *postRepository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return n > 0, nil
}
