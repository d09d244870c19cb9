package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformCreateValidates(t *testing.T) {
	e := newEnv(t)
	ps := NewPlatformService(e.store.Platforms(), e.store.Posts(), e.store.Metrics(), e.vault)

	_, err := ps.Create(context.Background(), e.owner, transfer.CreatePlatformRequest{Name: " ", Type: "tiktok"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	inactive := false
	p, err := ps.Create(context.Background(), e.owner, transfer.CreatePlatformRequest{Name: "side", Type: "LinkedIn", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "linkedin", p.Type)
	assert.False(t, p.IsActive)
	assert.Empty(t, p.CredentialsRef)
}

func TestPlatformVerify(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ps := NewPlatformService(e.store.Platforms(), e.store.Posts(), e.store.Metrics(), e.vault)

	resp, err := ps.Verify(ctx, e.owner, e.platform.ID)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, "**", resp.Credentials["client_secret"])
	assert.Equal(t, "***", resp.Credentials["access_token"])

	verified, err := ps.Get(ctx, e.owner, e.platform.ID)
	require.NoError(t, err)
	assert.NotNil(t, verified.LastSync)

	_, err = ps.Update(ctx, e.owner, e.platform.ID, transfer.UpdatePlatformRequest{
		Credentials: map[string]string{"access_token": "only"},
	})
	require.NoError(t, err)
	resp, err = ps.Verify(ctx, e.owner, e.platform.ID)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Message, "client_key")

	_, err = ps.Verify(ctx, e.other, e.platform.ID)
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)
}

func TestPlatformListScopesByOwner(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ps := NewPlatformService(e.store.Platforms(), e.store.Posts(), e.store.Metrics(), e.vault)

	_, err := ps.Create(ctx, e.other, transfer.CreatePlatformRequest{Name: "theirs", Type: "youtube"})
	require.NoError(t, err)

	mine, err := ps.List(ctx, e.owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := ps.List(ctx, e.admin, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = ps.List(ctx, e.owner, -1, 10)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = ps.List(ctx, e.owner, 0, MaxPageLimit+1)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPlatformStatsAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ps := NewPlatformService(e.store.Platforms(), e.store.Posts(), e.store.Metrics(), e.vault)

	e.draft(t, "one")
	published := e.draft(t, "two")
	_, err := e.posts().Publish(ctx, e.owner, published.ID)
	require.NoError(t, err)

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = ps.RecordMetric(ctx, e.owner, e.platform.ID, transfer.PlatformMetricRequest{Date: &day, FollowersCount: 10})
	require.NoError(t, err)
	later := day.AddDate(0, 0, 1)
	_, err = ps.RecordMetric(ctx, e.owner, e.platform.ID, transfer.PlatformMetricRequest{Date: &later, FollowersCount: 12})
	require.NoError(t, err)

	stats, err := ps.Stats(ctx, e.owner, e.platform.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPosts)
	assert.Equal(t, 1, stats.DraftPosts)
	assert.Equal(t, 1, stats.PublishedPosts)
	require.NotNil(t, stats.Latest)
	assert.Equal(t, int64(12), stats.Latest.FollowersCount)

	ref := e.platform.CredentialsRef
	require.NoError(t, ps.Delete(ctx, e.owner, e.platform.ID))
	_, err = ps.Get(ctx, e.owner, e.platform.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.vault.Resolve(ctx, ref)
	assert.Error(t, err)

	posts, err := e.posts().List(ctx, e.owner, transfer.PostQuery{})
	require.NoError(t, err)
	assert.Empty(t, posts)
}
