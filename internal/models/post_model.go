package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

func ParsePostStatus(s string) (PostStatus, error) {
	switch st := PostStatus(s); st {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown post status %q", s)
}

var ContentTypes = []string{"text", "image", "video", "link", "carousel", "story", "poll", "reel"}

type Post struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	PlatformID   int64      `db:"platform_id" json:"platform_id"`
	Content      string     `db:"content" json:"content"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Hashtags     []string   `db:"hashtags" json:"hashtags"`
	Mentions     []string   `db:"mentions" json:"mentions"`
	MediaURLs    []string   `db:"media_urls" json:"media_urls"`
	OGURL        string     `db:"og_url" json:"og_url,omitempty"`
	Status       PostStatus `db:"status" json:"status"`
	ExternalID   string     `db:"external_id" json:"external_id,omitempty"`
	ErrorMessage string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at,omitempty"`
}

type PostMetric struct {
	ID             int64           `db:"id" json:"id"`
	PostID         int64           `db:"post_id" json:"post_id"`
	Date           time.Time       `db:"date" json:"date"`
	Likes          int64           `db:"likes" json:"likes"`
	Comments       int64           `db:"comments" json:"comments"`
	Shares         int64           `db:"shares" json:"shares"`
	Saves          int64           `db:"saves" json:"saves"`
	Impressions    int64           `db:"impressions" json:"impressions"`
	Reach          int64           `db:"reach" json:"reach"`
	Clicks         int64           `db:"clicks" json:"clicks"`
	EngagementRate int64           `db:"engagement_rate" json:"engagement_rate"` // percent * 100
	Sentiment      string          `db:"sentiment" json:"sentiment,omitempty"`
	Details        json.RawMessage `db:"details" json:"details,omitempty"`
}
