package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

// MetricRepository stores append-only analytics snapshots.
type MetricRepository interface {
	CreatePlatformMetric(ctx context.Context, m *models.PlatformMetric) (int64, error)
	ListPlatformMetrics(ctx context.Context, platformID int64, from, to time.Time) ([]*models.PlatformMetric, error)
	CreatePostMetric(ctx context.Context, m *models.PostMetric) (int64, error)
	ListPostMetrics(ctx context.Context, postID int64) ([]*models.PostMetric, error)
	// ListPostMetricsByUser lists snapshots of every post owned by userID (0 for all owners).
	ListPostMetricsByUser(ctx context.Context, userID int64, from, to time.Time) ([]*models.PostMetric, error)
}

type metricRepository struct {
	db *sql.DB
}

func NewMetricRepository(db *sql.DB) MetricRepository {
	return &metricRepository{db: db}
}

const platformMetricColumns = `id, platform_id, date, followers_count, following_count, posts_count, engagement_rate,
	impressions, reach, likes, comments, shares, clicks, demographics`

const postMetricColumns = `m.id, m.post_id, m.date, m.likes, m.comments, m.shares, m.saves, m.impressions, m.reach,
	m.clicks, m.engagement_rate, m.sentiment, m.details`

func (r *metricRepository) CreatePlatformMetric(ctx context.Context, m *models.PlatformMetric) (int64, error) {
	query := `
		INSERT INTO platform_metrics (platform_id, date, followers_count, following_count, posts_count, engagement_rate,
			impressions, reach, likes, comments, shares, clicks, demographics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, m.PlatformID, m.Date, m.FollowersCount, m.FollowingCount, m.PostsCount,
		m.EngagementRate, m.Impressions, m.Reach, m.Likes, m.Comments, m.Shares, m.Clicks, jsonOrEmpty(m.Demographics)).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *metricRepository) ListPlatformMetrics(ctx context.Context, platformID int64, from, to time.Time) ([]*models.PlatformMetric, error) {
	query := "SELECT " + platformMetricColumns + ` FROM platform_metrics
		WHERE platform_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, platformID, from, to)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var metrics []*models.PlatformMetric
	for rows.Next() {
		var m models.PlatformMetric
		var demographics []byte
		err := rows.Scan(&m.ID, &m.PlatformID, &m.Date, &m.FollowersCount, &m.FollowingCount, &m.PostsCount,
			&m.EngagementRate, &m.Impressions, &m.Reach, &m.Likes, &m.Comments, &m.Shares, &m.Clicks, &demographics)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		m.Demographics = demographics
		metrics = append(metrics, &m)
	}
	return metrics, rows.Err()
}

func (r *metricRepository) CreatePostMetric(ctx context.Context, m *models.PostMetric) (int64, error) {
	query := `
		INSERT INTO post_metrics (post_id, date, likes, comments, shares, saves, impressions, reach, clicks,
			engagement_rate, sentiment, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, m.PostID, m.Date, m.Likes, m.Comments, m.Shares, m.Saves, m.Impressions,
		m.Reach, m.Clicks, m.EngagementRate, m.Sentiment, jsonOrEmpty(m.Details)).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *metricRepository) ListPostMetrics(ctx context.Context, postID int64) ([]*models.PostMetric, error) {
	query := "SELECT " + postMetricColumns + " FROM post_metrics m WHERE m.post_id = $1 ORDER BY m.date, m.id"
	return r.listPostMetrics(ctx, query, postID)
}

func (r *metricRepository) ListPostMetricsByUser(ctx context.Context, userID int64, from, to time.Time) ([]*models.PostMetric, error) {
	query := "SELECT " + postMetricColumns + ` FROM post_metrics m
		JOIN posts p ON p.id = m.post_id
		WHERE ($1 = 0 OR p.user_id = $1) AND m.date >= $2 AND m.date <= $3
		ORDER BY m.date, m.id`
	return r.listPostMetrics(ctx, query, userID, from, to)
}

func (r *metricRepository) listPostMetrics(ctx context.Context, query string, args ...any) ([]*models.PostMetric, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var metrics []*models.PostMetric
	for rows.Next() {
		var m models.PostMetric
		var details []byte
		err := rows.Scan(&m.ID, &m.PostID, &m.Date, &m.Likes, &m.Comments, &m.Shares, &m.Saves, &m.Impressions,
			&m.Reach, &m.Clicks, &m.EngagementRate, &m.Sentiment, &details)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		m.Details = details
		metrics = append(metrics, &m)
	}
	return metrics, rows.Err()
}
