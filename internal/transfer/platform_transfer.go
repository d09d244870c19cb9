package transfer

import (
	"encoding/json"
	"time"

	"github.com/maheshrc27/socialflow/internal/models"
)

type CreatePlatformRequest struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Credentials map[string]string `json:"credentials"`
	IsActive    *bool             `json:"is_active"`
}

type UpdatePlatformRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Credentials map[string]string `json:"credentials"`
	IsActive    *bool             `json:"is_active"`
}

type VerifyPlatformResponse struct {
	PlatformID  int64             `json:"platform_id"`
	Valid       bool              `json:"valid"`
	Message     string            `json:"message"`
	Credentials map[string]string `json:"credentials"`
}

type PlatformStats struct {
	PlatformID     int64                  `json:"platform_id"`
	TotalPosts     int                    `json:"total_posts"`
	DraftPosts     int                    `json:"draft_posts"`
	ScheduledPosts int                    `json:"scheduled_posts"`
	PublishedPosts int                    `json:"published_posts"`
	FailedPosts    int                    `json:"failed_posts"`
	LastSync       *time.Time             `json:"last_sync,omitempty"`
	Latest         *models.PlatformMetric `json:"latest_metrics,omitempty"`
}

type PlatformMetricRequest struct {
	Date           *time.Time      `json:"date"`
	FollowersCount int64           `json:"followers_count"`
	FollowingCount int64           `json:"following_count"`
	PostsCount     int64           `json:"posts_count"`
	EngagementRate int64           `json:"engagement_rate"`
	Impressions    int64           `json:"impressions"`
	Reach          int64           `json:"reach"`
	Likes          int64           `json:"likes"`
	Comments       int64           `json:"comments"`
	Shares         int64           `json:"shares"`
	Clicks         int64           `json:"clicks"`
	Demographics   json.RawMessage `json:"demographics"`
}
