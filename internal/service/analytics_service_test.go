package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket(t *testing.T) {
	// Wednesday
	ts := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), bucket(ts, "day"))
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), bucket(ts, "week"))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), bucket(ts, "month"))

	sunday := time.Date(2026, 3, 22, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), bucket(sunday, "week"))
}

func TestAnalyticsWindow(t *testing.T) {
	s := &analyticsService{now: func() time.Time { return time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC) }}

	r, err := s.window(transfer.AnalyticsRange{})
	require.NoError(t, err)
	assert.Equal(t, "day", r.Interval)
	assert.Equal(t, DefaultAnalyticsWindow, r.To.Sub(r.From))

	_, err = s.window(transfer.AnalyticsRange{Interval: "hour"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = s.window(transfer.AnalyticsRange{From: time.Now(), To: time.Now().Add(-time.Hour)})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

type analyticsFixture struct {
	*env
	svc     AnalyticsService
	storage *fakeStorage
	from    time.Time
	to      time.Time
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	ctx := context.Background()
	e := newEnv(t)
	f := &analyticsFixture{env: e, storage: newFakeStorage()}
	f.svc = NewAnalyticsService(e.store.Platforms(), e.store.Posts(), e.store.Metrics(), f.storage)

	ps := NewPlatformService(e.store.Platforms(), e.store.Posts(), e.store.Metrics(), e.vault)
	day := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	for i, followers := range []int64{100, 110, 130} {
		at := day.AddDate(0, 0, 7*i)
		_, err := ps.RecordMetric(ctx, e.owner, e.platform.ID, transfer.PlatformMetricRequest{
			Date: &at, FollowersCount: followers, Impressions: 10, EngagementRate: 200,
		})
		require.NoError(t, err)
	}

	for i, likes := range []int64{5, 50} {
		p := e.draft(t, "post")
		_, err := e.posts().Publish(ctx, e.owner, p.ID)
		require.NoError(t, err)
		at := day.AddDate(0, 0, i)
		_, err = e.posts().RecordMetric(ctx, e.owner, p.ID, transfer.PostMetricRequest{
			Date: &at, Likes: likes, EngagementRate: likes * 10,
		})
		require.NoError(t, err)
	}

	f.from = day.AddDate(0, 0, -1)
	f.to = day.AddDate(0, 0, 30)
	return f
}

func TestPlatformAnalytics(t *testing.T) {
	f := newAnalyticsFixture(t)
	out, err := f.svc.Platform(context.Background(), f.owner, transfer.AnalyticsRange{PlatformID: f.platform.ID, From: f.from, To: f.to})
	require.NoError(t, err)
	assert.Equal(t, int64(130), out.Followers)
	assert.Equal(t, int64(30), out.FollowerGrowth)
	assert.Equal(t, int64(30), out.Impressions)
	assert.Equal(t, int64(200), out.EngagementRate)
	assert.Len(t, out.Snapshots, 3)

	_, err = f.svc.Platform(context.Background(), f.other, transfer.AnalyticsRange{PlatformID: f.platform.ID})
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)
}

func TestGrowthSeries(t *testing.T) {
	f := newAnalyticsFixture(t)
	out, err := f.svc.Growth(context.Background(), f.owner, transfer.AnalyticsRange{From: f.from, To: f.to, Interval: "week"})
	require.NoError(t, err)
	require.Len(t, out.Points, 3)
	assert.Equal(t, int64(100), out.Points[0].Followers)
	assert.Equal(t, int64(10), out.Points[1].Change)
	assert.Equal(t, int64(20), out.Points[2].Change)
}

func TestEngagementSeries(t *testing.T) {
	f := newAnalyticsFixture(t)
	out, err := f.svc.Engagement(context.Background(), f.owner, transfer.AnalyticsRange{From: f.from, To: f.to, Interval: "week"})
	require.NoError(t, err)
	require.Len(t, out.Points, 1)
	assert.Equal(t, int64(55), out.Points[0].Likes)
	assert.Equal(t, int64(275), out.Points[0].EngagementRate)

	daily, err := f.svc.Engagement(context.Background(), f.owner, transfer.AnalyticsRange{From: f.from, To: f.to})
	require.NoError(t, err)
	assert.Len(t, daily.Points, 2)
}

func TestPerformanceRanksByEngagement(t *testing.T) {
	f := newAnalyticsFixture(t)
	now := time.Now()
	out, err := f.svc.Performance(context.Background(), f.owner, transfer.AnalyticsRange{From: now.Add(-time.Hour), To: now.Add(time.Hour), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalPosts)
	assert.Equal(t, int64(55), out.Totals.Likes)
	require.Len(t, out.TopPosts, 1)
	assert.Equal(t, int64(50), out.TopPosts[0].Metrics.Likes)

	_, err = f.svc.Performance(context.Background(), f.owner, transfer.AnalyticsRange{Limit: MaxTopPosts + 1})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAudience(t *testing.T) {
	f := newAnalyticsFixture(t)
	out, err := f.svc.Audience(context.Background(), f.owner, 0)
	require.NoError(t, err)
	require.Len(t, out.Platforms, 1)
	assert.Equal(t, int64(130), out.Platforms[0].Followers)
	require.NotNil(t, out.Platforms[0].AsOf)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	f := newAnalyticsFixture(t)
	r := transfer.AnalyticsRange{From: f.from, To: f.to}

	url, err := f.svc.Export(ctx, f.owner, r, "")
	require.NoError(t, err)
	key := strings.TrimPrefix(url, "https://cdn.example/")
	assert.True(t, strings.HasPrefix(key, "exports/"))
	assert.True(t, strings.HasSuffix(key, ".csv"))
	assert.Equal(t, "text/csv", f.storage.types[key])

	records, err := csv.NewReader(bytes.NewReader(f.storage.objects[key])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeader, records[0])

	url, err = f.svc.Export(ctx, f.owner, r, "json")
	require.NoError(t, err)
	var rows []exportRow
	require.NoError(t, json.Unmarshal(f.storage.objects[strings.TrimPrefix(url, "https://cdn.example/")], &rows))
	assert.Len(t, rows, 2)

	_, err = f.svc.Export(ctx, f.owner, r, "xlsx")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	bare := NewAnalyticsService(f.store.Platforms(), f.store.Posts(), f.store.Metrics(), nil)
	_, err = bare.Export(ctx, f.owner, r, "csv")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}
