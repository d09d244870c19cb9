package models

import (
	"encoding/json"
	"time"
)

const (
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
	PlatformTiktok    = "tiktok"
	PlatformYoutube   = "youtube"
)

type Platform struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	Name           string     `db:"name" json:"name"`
	Type           string     `db:"type" json:"type"`
	Description    string     `db:"description" json:"description"`
	CredentialsRef string     `db:"credentials_ref" json:"-"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	LastSync       *time.Time `db:"last_sync" json:"last_sync,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// PlatformMetric is an append-only analytics snapshot for a platform.
type PlatformMetric struct {
	ID             int64           `db:"id" json:"id"`
	PlatformID     int64           `db:"platform_id" json:"platform_id"`
	Date           time.Time       `db:"date" json:"date"`
	FollowersCount int64           `db:"followers_count" json:"followers_count"`
	FollowingCount int64           `db:"following_count" json:"following_count"`
	PostsCount     int64           `db:"posts_count" json:"posts_count"`
	EngagementRate int64           `db:"engagement_rate" json:"engagement_rate"` // percent * 100
	Impressions    int64           `db:"impressions" json:"impressions"`
	Reach          int64           `db:"reach" json:"reach"`
	Likes          int64           `db:"likes" json:"likes"`
	Comments       int64           `db:"comments" json:"comments"`
	Shares         int64           `db:"shares" json:"shares"`
	Clicks         int64           `db:"clicks" json:"clicks"`
	Demographics   json.RawMessage `db:"demographics" json:"demographics,omitempty"`
}
