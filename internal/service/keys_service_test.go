package service

import (
	"context"
	"strings"
	"testing"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeyLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	keys := NewApiKeyService(store.ApiKeys())

	created, err := keys.Create(ctx, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ApiKey)

	userID, err := keys.GetUserID(ctx, created.ApiKey)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	_, err = keys.GetUserID(ctx, "nope")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = keys.GetUserID(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	listed, err := keys.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.NotEqual(t, created.ApiKey, listed[0].ApiKey)
	assert.True(t, strings.HasSuffix(created.ApiKey, listed[0].ApiKey[len(listed[0].ApiKey)-4:]))

	assert.ErrorIs(t, keys.RemoveAPIKey(ctx, 8, created.ID), apperror.ErrNotFound)
	assert.ErrorIs(t, keys.RemoveAPIKey(ctx, 7, 0), apperror.ErrInvalidInput)
	require.NoError(t, keys.RemoveAPIKey(ctx, 7, created.ID))
	_, err = keys.GetUserID(ctx, created.ApiKey)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestApiKeyLimit(t *testing.T) {
	ctx := context.Background()
	keys := NewApiKeyService(memory.NewStore().ApiKeys())

	for i := 0; i < MaxApiKeys; i++ {
		_, err := keys.Create(ctx, 1)
		require.NoError(t, err)
	}
	_, err := keys.Create(ctx, 1)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = keys.Create(ctx, 2)
	assert.NoError(t, err)
}
