package transfer

import (
	"encoding/json"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type AnalyticsRange struct {
	PlatformID int64
	From       time.Time
	To         time.Time
	Interval   string
	Limit      int
}

type PlatformAnalytics struct {
	PlatformID     int64                    `json:"platform_id"`
	PlatformName   string                   `json:"platform_name"`
	PlatformType   string                   `json:"platform_type"`
	From           time.Time                `json:"from_date"`
	To             time.Time                `json:"to_date"`
	Followers      int64                    `json:"followers"`
	FollowerGrowth int64                    `json:"follower_growth"`
	Impressions    int64                    `json:"impressions"`
	Reach          int64                    `json:"reach"`
	EngagementRate int64                    `json:"engagement_rate"`
	Demographics   json.RawMessage          `json:"demographics,omitempty"`
	Snapshots      []*models.PlatformMetric `json:"snapshots"`
}

type PostPerformance struct {
	PostID      int64          `json:"post_id"`
	PlatformID  int64          `json:"platform_id"`
	Content     string         `json:"content"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Metrics     *MetricSummary `json:"metrics"`
}

type PerformanceReport struct {
	From       time.Time          `json:"from_date"`
	To         time.Time          `json:"to_date"`
	TotalPosts int                `json:"total_posts"`
	Totals     MetricSummary      `json:"totals"`
	TopPosts   []*PostPerformance `json:"top_posts"`
}

type AudienceReport struct {
	Platforms []*PlatformAudience `json:"platforms"`
}

type PlatformAudience struct {
	PlatformID   int64           `json:"platform_id"`
	PlatformType string          `json:"platform_type"`
	Followers    int64           `json:"followers"`
	Demographics json.RawMessage `json:"demographics,omitempty"`
	AsOf         *time.Time      `json:"as_of,omitempty"`
}

type SeriesPoint struct {
	Period         time.Time `json:"period"`
	Likes          int64     `json:"likes,omitempty"`
	Comments       int64     `json:"comments,omitempty"`
	Shares         int64     `json:"shares,omitempty"`
	Impressions    int64     `json:"impressions,omitempty"`
	EngagementRate int64     `json:"engagement_rate,omitempty"`
	Followers      int64     `json:"followers,omitempty"`
	Change         int64     `json:"change,omitempty"`
}

type SeriesReport struct {
	Interval string         `json:"interval"`
	From     time.Time      `json:"from_date"`
	To       time.Time      `json:"to_date"`
	Points   []*SeriesPoint `json:"points"`
}

type ExportResponse struct {
	DownloadURL string `json:"download_url"`
}
