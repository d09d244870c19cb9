package service

import (
	"context"
	"strings"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/lifecycle"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type PostService interface {
	// CreatePost stores a draft. The status is always draft regardless of input.
	CreatePost(ctx context.Context, actor models.Actor, req transfer.CreatePostRequest) (*models.Post, error)
	List(ctx context.Context, actor models.Actor, q transfer.PostQuery) ([]*models.Post, error)
	PostInfo(ctx context.Context, actor models.Actor, postID int64) (*transfer.PostDetail, error)
	Update(ctx context.Context, actor models.Actor, postID int64, req transfer.UpdatePostRequest) (*models.Post, error)
	Remove(ctx context.Context, actor models.Actor, postID int64) error
	Publish(ctx context.Context, actor models.Actor, postID int64) (*models.Post, error)
	Analytics(ctx context.Context, actor models.Actor, postID int64) (*transfer.PostAnalytics, error)
	Attempts(ctx context.Context, actor models.Actor, postID int64) ([]*models.PublishAttempt, error)
	RecordMetric(ctx context.Context, actor models.Actor, postID int64, req transfer.PostMetricRequest) (*models.PostMetric, error)
}

type postService struct {
	pr   repository.PostRepository
	pl   repository.PlatformRepository
	m    repository.MetricRepository
	pa   repository.PublishAttemptRepository
	ctrl *lifecycle.Controller
	now  func() time.Time
}

func NewPostService(
	pr repository.PostRepository,
	pl repository.PlatformRepository,
	m repository.MetricRepository,
	pa repository.PublishAttemptRepository,
	ctrl *lifecycle.Controller) PostService {
	return &postService{
		pr:   pr,
		pl:   pl,
		m:    m,
		pa:   pa,
		ctrl: ctrl,
		now:  time.Now,
	}
}

// normalizeTags trims tags, drops a leading marker and skips empty entries.
func normalizeTags(tags []string, marker string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), marker)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *postService) CreatePost(ctx context.Context, actor models.Actor, req transfer.CreatePostRequest) (*models.Post, error) {
	platform, err := loadPlatform(ctx, s.pl, actor, req.PlatformID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:      platform.UserID,
		PlatformID:  platform.ID,
		Content:     req.Content,
		ContentType: strings.ToLower(strings.TrimSpace(req.ContentType)),
		Hashtags:    normalizeTags(req.Hashtags, "#"),
		Mentions:    normalizeTags(req.Mentions, "@"),
		MediaURLs:   normalizeTags(req.MediaURLs, ""),
		OGURL:       strings.TrimSpace(req.OGURL),
		Status:      models.PostStatusDraft,
	}
	if err := lifecycle.ValidatePostContent(post); err != nil {
		return nil, err
	}

	id, err := s.pr.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	return loadPost(ctx, s.pr, actor, id)
}

func (s *postService) List(ctx context.Context, actor models.Actor, q transfer.PostQuery) ([]*models.Post, error) {
	skip, limit, err := Page(q.Skip, q.Limit)
	if err != nil {
		return nil, err
	}

	f := repository.PostFilter{
		UserID:     ownerScope(actor),
		PlatformID: q.PlatformID,
		Offset:     skip,
		Limit:      limit,
	}
	if q.Status != "" {
		f.Status, err = models.ParsePostStatus(q.Status)
		if err != nil {
			return nil, apperror.Invalid("%s", err.Error())
		}
	}
	return s.pr.List(ctx, f)
}

func (s *postService) PostInfo(ctx context.Context, actor models.Actor, postID int64) (*transfer.PostDetail, error) {
	post, err := loadPost(ctx, s.pr, actor, postID)
	if err != nil {
		return nil, err
	}

	detail := &transfer.PostDetail{Post: post}
	platform, err := s.pl.GetByID(ctx, post.PlatformID)
	if err != nil {
		return nil, err
	}
	if platform != nil {
		detail.PlatformName = platform.Name
		detail.PlatformType = platform.Type
	}

	metrics, err := s.m.ListPostMetrics(ctx, postID)
	if err != nil {
		return nil, err
	}
	if n := len(metrics); n > 0 {
		detail.Metrics = summarize(metrics[n-1])
	}
	return detail, nil
}

func (s *postService) Update(ctx context.Context, actor models.Actor, postID int64, req transfer.UpdatePostRequest) (*models.Post, error) {
	post, err := loadPost(ctx, s.pr, actor, postID)
	if err != nil {
		return nil, err
	}

	changes := lifecycle.PostChanges{
		Content: req.Content,
		OGURL:   req.OGURL,
	}
	if req.ContentType != nil {
		ct := strings.ToLower(strings.TrimSpace(*req.ContentType))
		changes.ContentType = &ct
	}
	if req.Hashtags != nil {
		tags := normalizeTags(*req.Hashtags, "#")
		changes.Hashtags = &tags
	}
	if req.Mentions != nil {
		mentions := normalizeTags(*req.Mentions, "@")
		changes.Mentions = &mentions
	}
	if req.MediaURLs != nil {
		urls := normalizeTags(*req.MediaURLs, "")
		changes.MediaURLs = &urls
	}
	return s.ctrl.UpdatePost(ctx, actor, post, changes)
}

func (s *postService) Remove(ctx context.Context, actor models.Actor, postID int64) error {
	post, err := loadPost(ctx, s.pr, actor, postID)
	if err != nil {
		return err
	}
	return s.ctrl.DeletePost(ctx, actor, post)
}

func (s *postService) Publish(ctx context.Context, actor models.Actor, postID int64) (*models.Post, error) {
	post, err := loadPost(ctx, s.pr, actor, postID)
	if err != nil {
		return nil, err
	}
	return s.ctrl.PublishPost(ctx, actor, post)
}

func (s *postService) Analytics(ctx context.Context, actor models.Actor, postID int64) (*transfer.PostAnalytics, error) {
	post, err := loadPost(ctx, s.pr, actor, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, apperror.Invalid("analytics are only available for published posts")
	}

	history, err := s.m.ListPostMetrics(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := &transfer.PostAnalytics{
		PostID:      postID,
		PublishedAt: post.PublishedAt,
		Latest:      &transfer.MetricSummary{},
		History:     history,
	}
	if n := len(history); n > 0 {
		out.Latest = summarize(history[n-1])
	}
	return out, nil
}

func (s *postService) Attempts(ctx context.Context, actor models.Actor, postID int64) ([]*models.PublishAttempt, error) {
	if _, err := loadPost(ctx, s.pr, actor, postID); err != nil {
		return nil, err
	}
	return s.pa.ListByPostID(ctx, postID)
}

func (s *postService) RecordMetric(ctx context.Context, actor models.Actor, postID int64, req transfer.PostMetricRequest) (*models.PostMetric, error) {
	if _, err := loadPost(ctx, s.pr, actor, postID); err != nil {
		return nil, err
	}

	at := s.now()
	if req.Date != nil {
		at = *req.Date
	}
	m := &models.PostMetric{
		PostID:         postID,
		Date:           at.UTC(),
		Likes:          req.Likes,
		Comments:       req.Comments,
		Shares:         req.Shares,
		Saves:          req.Saves,
		Impressions:    req.Impressions,
		Reach:          req.Reach,
		Clicks:         req.Clicks,
		EngagementRate: req.EngagementRate,
		Sentiment:      req.Sentiment,
		Details:        req.Details,
	}

	var err error
	m.ID, err = s.m.CreatePostMetric(ctx, m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func summarize(m *models.PostMetric) *transfer.MetricSummary {
	return &transfer.MetricSummary{
		Likes:          m.Likes,
		Comments:       m.Comments,
		Shares:         m.Shares,
		Saves:          m.Saves,
		Impressions:    m.Impressions,
		Reach:          m.Reach,
		Clicks:         m.Clicks,
		EngagementRate: m.EngagementRate,
	}
}
