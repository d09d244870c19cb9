package service

import (
	"context"
	"strings"
	"testing"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostIsAlwaysDraft(t *testing.T) {
	e := newEnv(t)
	p, err := e.posts().CreatePost(context.Background(), e.owner, transfer.CreatePostRequest{
		PlatformID: e.platform.ID, Content: "hi", ContentType: " Text ",
		Hashtags: []string{"#go", " ", "fiber"}, Mentions: []string{"@gopher"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, p.Status)
	assert.Equal(t, "text", p.ContentType)
	assert.Equal(t, []string{"go", "fiber"}, p.Hashtags)
	assert.Equal(t, []string{"gopher"}, p.Mentions)
	assert.Equal(t, e.owner.UserID, p.UserID)
}

func TestCreatePostRules(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.posts().CreatePost(ctx, e.owner, transfer.CreatePostRequest{
		PlatformID: e.platform.ID, Content: strings.Repeat("x", 5001), ContentType: "text",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = e.posts().CreatePost(ctx, e.other, transfer.CreatePostRequest{
		PlatformID: e.platform.ID, Content: "hi", ContentType: "text",
	})
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)

	_, err = e.posts().CreatePost(ctx, e.owner, transfer.CreatePostRequest{
		PlatformID: 9999, Content: "hi", ContentType: "text",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPublishFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ps := e.posts()
	p := e.draft(t, "ship it")

	_, err := ps.Analytics(ctx, e.owner, p.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	published, err := ps.Publish(ctx, e.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, published.Status)
	assert.Equal(t, "ext-1", published.ExternalID)

	_, err = ps.Publish(ctx, e.owner, p.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyPublished)

	content := "edited"
	_, err = ps.Update(ctx, e.owner, p.ID, transfer.UpdatePostRequest{Content: &content})
	assert.ErrorIs(t, err, apperror.ErrImmutablePublished)

	attempts, err := ps.Attempts(ctx, e.owner, p.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Succeeded())

	_, err = ps.RecordMetric(ctx, e.owner, p.ID, transfer.PostMetricRequest{Likes: 3, EngagementRate: 40})
	require.NoError(t, err)
	analytics, err := ps.Analytics(ctx, e.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), analytics.Latest.Likes)
	assert.Len(t, analytics.History, 1)

	detail, err := ps.PostInfo(ctx, e.owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "main", detail.PlatformName)
	require.NotNil(t, detail.Metrics)
	assert.Equal(t, int64(40), detail.Metrics.EngagementRate)
}

func TestPostListFilters(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ps := e.posts()
	e.draft(t, "a")
	p := e.draft(t, "b")
	_, err := ps.Publish(ctx, e.owner, p.ID)
	require.NoError(t, err)

	drafts, err := ps.List(ctx, e.owner, transfer.PostQuery{Status: "draft"})
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = ps.List(ctx, e.owner, transfer.PostQuery{Status: "archived"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	theirs, err := ps.List(ctx, e.other, transfer.PostQuery{})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	page, err := ps.List(ctx, e.owner, transfer.PostQuery{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestRemovePost(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.draft(t, "bye")

	assert.ErrorIs(t, e.posts().Remove(ctx, e.other, p.ID), apperror.ErrAccessDenied)
	require.NoError(t, e.posts().Remove(ctx, e.owner, p.ID))
	_, err := e.posts().PostInfo(ctx, e.owner, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
