package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultAnalyticsWindow = 30 * 24 * time.Hour
	DefaultTopPosts        = 10
	MaxTopPosts            = 100
)

type AnalyticsService interface {
	Platform(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.PlatformAnalytics, error)
	Performance(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.PerformanceReport, error)
	Audience(ctx context.Context, actor models.Actor, platformID int64) (*transfer.AudienceReport, error)
	Engagement(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.SeriesReport, error)
	Growth(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.SeriesReport, error)
	// Export writes the post metrics in range to object storage and returns the download URL.
	Export(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange, format string) (string, error)
}

type analyticsService struct {
	pl      repository.PlatformRepository
	pr      repository.PostRepository
	m       repository.MetricRepository
	storage StorageService
	now     func() time.Time
}

func NewAnalyticsService(pl repository.PlatformRepository, pr repository.PostRepository, m repository.MetricRepository, storage StorageService) AnalyticsService {
	return &analyticsService{
		pl:      pl,
		pr:      pr,
		m:       m,
		storage: storage,
		now:     time.Now,
	}
}

// window fills in the default range and validates the interval.
func (s *analyticsService) window(r transfer.AnalyticsRange) (transfer.AnalyticsRange, error) {
	if r.To.IsZero() {
		r.To = s.now()
	}
	if r.From.IsZero() {
		r.From = r.To.Add(-DefaultAnalyticsWindow)
	}
	if r.To.Before(r.From) {
		return r, apperror.Invalid("to_date must not be before from_date")
	}
	switch r.Interval {
	case "":
		r.Interval = "day"
	case "day", "week", "month":
	default:
		return r, apperror.Invalid("interval must be one of day, week, month")
	}
	return r, nil
}

// bucket truncates t to the start of its day, ISO week or month in UTC.
func bucket(t time.Time, interval string) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch interval {
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

func (s *analyticsService) platforms(ctx context.Context, actor models.Actor, platformID int64) ([]*models.Platform, error) {
	if platformID != 0 {
		p, err := loadPlatform(ctx, s.pl, actor, platformID)
		if err != nil {
			return nil, err
		}
		return []*models.Platform{p}, nil
	}
	return s.pl.ListByUserID(ctx, ownerScope(actor), 0, 0)
}

// postsByID returns the actor's posts, optionally restricted to one platform.
func (s *analyticsService) postsByID(ctx context.Context, actor models.Actor, platformID int64, status models.PostStatus) (map[int64]*models.Post, error) {
	if platformID != 0 {
		if _, err := loadPlatform(ctx, s.pl, actor, platformID); err != nil {
			return nil, err
		}
	}
	posts, err := s.pr.List(ctx, repository.PostFilter{UserID: ownerScope(actor), PlatformID: platformID, Status: status})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]*models.Post, len(posts))
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

func (s *analyticsService) Platform(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.PlatformAnalytics, error) {
	r, err := s.window(r)
	if err != nil {
		return nil, err
	}
	platform, err := loadPlatform(ctx, s.pl, actor, r.PlatformID)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.m.ListPlatformMetrics(ctx, platform.ID, r.From, r.To)
	if err != nil {
		return nil, err
	}

	out := &transfer.PlatformAnalytics{
		PlatformID:   platform.ID,
		PlatformName: platform.Name,
		PlatformType: platform.Type,
		From:         r.From,
		To:           r.To,
		Snapshots:    snapshots,
	}
	if len(snapshots) == 0 {
		out.Snapshots = []*models.PlatformMetric{}
		return out, nil
	}

	first, last := snapshots[0], snapshots[len(snapshots)-1]
	out.Followers = last.FollowersCount
	out.FollowerGrowth = last.FollowersCount - first.FollowersCount
	out.Demographics = last.Demographics
	var rate int64
	for _, m := range snapshots {
		out.Impressions += m.Impressions
		out.Reach += m.Reach
		rate += m.EngagementRate
	}
	out.EngagementRate = rate / int64(len(snapshots))
	return out, nil
}

func (s *analyticsService) Performance(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.PerformanceReport, error) {
	r, err := s.window(r)
	if err != nil {
		return nil, err
	}
	if r.Limit == 0 {
		r.Limit = DefaultTopPosts
	}
	if r.Limit < 1 || r.Limit > MaxTopPosts {
		return nil, apperror.Invalid("limit must be between 1 and %d", MaxTopPosts)
	}

	posts, err := s.postsByID(ctx, actor, r.PlatformID, models.PostStatusPublished)
	if err != nil {
		return nil, err
	}
	metrics, err := s.m.ListPostMetricsByUser(ctx, ownerScope(actor), time.Time{}, endOfTime)
	if err != nil {
		return nil, err
	}
	latest := make(map[int64]*models.PostMetric)
	for _, m := range metrics {
		latest[m.PostID] = m
	}

	report := &transfer.PerformanceReport{From: r.From, To: r.To, TopPosts: []*transfer.PostPerformance{}}
	for _, p := range posts {
		if p.PublishedAt == nil || p.PublishedAt.Before(r.From) || p.PublishedAt.After(r.To) {
			continue
		}
		report.TotalPosts++
		perf := &transfer.PostPerformance{
			PostID:      p.ID,
			PlatformID:  p.PlatformID,
			Content:     p.Content,
			PublishedAt: p.PublishedAt,
			Metrics:     &transfer.MetricSummary{},
		}
		if m, ok := latest[p.ID]; ok {
			perf.Metrics = summarize(m)
			addSummary(&report.Totals, perf.Metrics)
		}
		report.TopPosts = append(report.TopPosts, perf)
	}
	if report.TotalPosts > 0 {
		report.Totals.EngagementRate /= int64(report.TotalPosts)
	}

	sort.Slice(report.TopPosts, func(i, j int) bool {
		a, b := report.TopPosts[i].Metrics, report.TopPosts[j].Metrics
		if a.EngagementRate != b.EngagementRate {
			return a.EngagementRate > b.EngagementRate
		}
		return report.TopPosts[i].PostID < report.TopPosts[j].PostID
	})
	if len(report.TopPosts) > r.Limit {
		report.TopPosts = report.TopPosts[:r.Limit]
	}
	return report, nil
}

func addSummary(total, m *transfer.MetricSummary) {
	total.Likes += m.Likes
	total.Comments += m.Comments
	total.Shares += m.Shares
	total.Saves += m.Saves
	total.Impressions += m.Impressions
	total.Reach += m.Reach
	total.Clicks += m.Clicks
	total.EngagementRate += m.EngagementRate
}

func (s *analyticsService) Audience(ctx context.Context, actor models.Actor, platformID int64) (*transfer.AudienceReport, error) {
	platforms, err := s.platforms(ctx, actor, platformID)
	if err != nil {
		return nil, err
	}

	report := &transfer.AudienceReport{Platforms: make([]*transfer.PlatformAudience, 0, len(platforms))}
	for _, p := range platforms {
		audience := &transfer.PlatformAudience{PlatformID: p.ID, PlatformType: p.Type}
		snapshots, err := s.m.ListPlatformMetrics(ctx, p.ID, time.Time{}, endOfTime)
		if err != nil {
			return nil, err
		}
		if n := len(snapshots); n > 0 {
			last := snapshots[n-1]
			audience.Followers = last.FollowersCount
			audience.Demographics = last.Demographics
			audience.AsOf = &last.Date
		}
		report.Platforms = append(report.Platforms, audience)
	}
	return report, nil
}

func (s *analyticsService) Engagement(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.SeriesReport, error) {
	r, err := s.window(r)
	if err != nil {
		return nil, err
	}
	posts, err := s.postsByID(ctx, actor, r.PlatformID, "")
	if err != nil {
		return nil, err
	}
	metrics, err := s.m.ListPostMetricsByUser(ctx, ownerScope(actor), r.From, r.To)
	if err != nil {
		return nil, err
	}

	points := map[time.Time]*transfer.SeriesPoint{}
	samples := map[time.Time]int64{}
	for _, m := range metrics {
		if _, ok := posts[m.PostID]; !ok {
			continue
		}
		period := bucket(m.Date, r.Interval)
		p, ok := points[period]
		if !ok {
			p = &transfer.SeriesPoint{Period: period}
			points[period] = p
		}
		p.Likes += m.Likes
		p.Comments += m.Comments
		p.Shares += m.Shares
		p.Impressions += m.Impressions
		p.EngagementRate += m.EngagementRate
		samples[period]++
	}
	for period, p := range points {
		p.EngagementRate /= samples[period]
	}
	return series(r, points), nil
}

// Growth reports follower counts per period, summed over the latest
// snapshot of each platform in that period.
func (s *analyticsService) Growth(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange) (*transfer.SeriesReport, error) {
	r, err := s.window(r)
	if err != nil {
		return nil, err
	}
	platforms, err := s.platforms(ctx, actor, r.PlatformID)
	if err != nil {
		return nil, err
	}

	points := map[time.Time]*transfer.SeriesPoint{}
	for _, p := range platforms {
		snapshots, err := s.m.ListPlatformMetrics(ctx, p.ID, r.From, r.To)
		if err != nil {
			return nil, err
		}
		latest := map[time.Time]int64{}
		for _, m := range snapshots {
			latest[bucket(m.Date, r.Interval)] = m.FollowersCount
		}
		for period, followers := range latest {
			pt, ok := points[period]
			if !ok {
				pt = &transfer.SeriesPoint{Period: period}
				points[period] = pt
			}
			pt.Followers += followers
		}
	}

	report := series(r, points)
	for i := 1; i < len(report.Points); i++ {
		report.Points[i].Change = report.Points[i].Followers - report.Points[i-1].Followers
	}
	return report, nil
}

func series(r transfer.AnalyticsRange, points map[time.Time]*transfer.SeriesPoint) *transfer.SeriesReport {
	out := &transfer.SeriesReport{
		Interval: r.Interval,
		From:     r.From,
		To:       r.To,
		Points:   make([]*transfer.SeriesPoint, 0, len(points)),
	}
	for _, p := range points {
		out.Points = append(out.Points, p)
	}
	sort.Slice(out.Points, func(i, j int) bool { return out.Points[i].Period.Before(out.Points[j].Period) })
	return out
}

var exportHeader = []string{
	"post_id", "platform_id", "date", "likes", "comments", "shares", "saves",
	"impressions", "reach", "clicks", "engagement_rate",
}

type exportRow struct {
	PostID         int64     `json:"post_id"`
	PlatformID     int64     `json:"platform_id"`
	Date           time.Time `json:"date"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	Shares         int64     `json:"shares"`
	Saves          int64     `json:"saves"`
	Impressions    int64     `json:"impressions"`
	Reach          int64     `json:"reach"`
	Clicks         int64     `json:"clicks"`
	EngagementRate int64     `json:"engagement_rate"`
}

func (row exportRow) record() []string {
	return []string{
		strconv.FormatInt(row.PostID, 10),
		strconv.FormatInt(row.PlatformID, 10),
		row.Date.UTC().Format(time.RFC3339),
		strconv.FormatInt(row.Likes, 10),
		strconv.FormatInt(row.Comments, 10),
		strconv.FormatInt(row.Shares, 10),
		strconv.FormatInt(row.Saves, 10),
		strconv.FormatInt(row.Impressions, 10),
		strconv.FormatInt(row.Reach, 10),
		strconv.FormatInt(row.Clicks, 10),
		strconv.FormatInt(row.EngagementRate, 10),
	}
}

func (s *analyticsService) Export(ctx context.Context, actor models.Actor, r transfer.AnalyticsRange, format string) (string, error) {
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		return "", apperror.Invalid("unsupported format %q, supported formats: csv, json", format)
	}
	if s.storage == nil {
		return "", ErrStorageNotConfigured
	}
	r, err := s.window(r)
	if err != nil {
		return "", err
	}

	posts, err := s.postsByID(ctx, actor, r.PlatformID, "")
	if err != nil {
		return "", err
	}
	metrics, err := s.m.ListPostMetricsByUser(ctx, ownerScope(actor), r.From, r.To)
	if err != nil {
		return "", err
	}
	rows := make([]exportRow, 0, len(metrics))
	for _, m := range metrics {
		p, ok := posts[m.PostID]
		if !ok {
			continue
		}
		rows = append(rows, exportRow{
			PostID: m.PostID, PlatformID: p.PlatformID, Date: m.Date,
			Likes: m.Likes, Comments: m.Comments, Shares: m.Shares, Saves: m.Saves,
			Impressions: m.Impressions, Reach: m.Reach, Clicks: m.Clicks, EngagementRate: m.EngagementRate,
		})
	}

	body, contentType, err := encodeExport(rows, format)
	if err != nil {
		return "", err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	key := fmt.Sprintf("exports/%d/analytics-%s.%s", actor.UserID, id, format)
	return s.storage.Upload(ctx, key, body, contentType)
}

func encodeExport(rows []exportRow, format string) ([]byte, string, error) {
	if format == "json" {
		body, err := json.Marshal(rows)
		return body, "application/json", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, "", err
	}
	for _, row := range rows {
		if err := w.Write(row.record()); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	return buf.Bytes(), "text/csv", w.Error()
}
