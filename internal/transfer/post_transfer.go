package transfer

import (
	"encoding/json"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type CreatePostRequest struct {
	PlatformID  int64    `json:"platform_id"`
	Content     string   `json:"content"`
	ContentType string   `json:"content_type"`
	Hashtags    []string `json:"hashtags"`
	Mentions    []string `json:"mentions"`
	MediaURLs   []string `json:"media_urls"`
	OGURL       string   `json:"og_url"`
}

type UpdatePostRequest struct {
	Content     *string   `json:"content"`
	ContentType *string   `json:"content_type"`
	Hashtags    *[]string `json:"hashtags"`
	Mentions    *[]string `json:"mentions"`
	MediaURLs   *[]string `json:"media_urls"`
	OGURL       *string   `json:"og_url"`
}

type PostQuery struct {
	Skip       int
	Limit      int
	PlatformID int64
	Status     string
}

type MetricSummary struct {
	Likes          int64 `json:"likes"`
	Comments       int64 `json:"comments"`
	Shares         int64 `json:"shares"`
	Saves          int64 `json:"saves"`
	Impressions    int64 `json:"impressions"`
	Reach          int64 `json:"reach"`
	Clicks         int64 `json:"clicks"`
	EngagementRate int64 `json:"engagement_rate"`
}

type PostDetail struct {
	*models.Post
	PlatformName string         `json:"platform_name"`
	PlatformType string         `json:"platform_type"`
	Metrics      *MetricSummary `json:"metrics,omitempty"`
}

type PostAnalytics struct {
	PostID      int64                `json:"post_id"`
	PublishedAt *time.Time           `json:"published_at,omitempty"`
	Latest      *MetricSummary       `json:"latest"`
	History     []*models.PostMetric `json:"history"`
}

type PostMetricRequest struct {
	Date           *time.Time      `json:"date"`
	Likes          int64           `json:"likes"`
	Comments       int64           `json:"comments"`
	Shares         int64           `json:"shares"`
	Saves          int64           `json:"saves"`
	Impressions    int64           `json:"impressions"`
	Reach          int64           `json:"reach"`
	Clicks         int64           `json:"clicks"`
	EngagementRate int64           `json:"engagement_rate"`
	Sentiment      string          `json:"sentiment"`
	Details        json.RawMessage `json:"details"`
}
