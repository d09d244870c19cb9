package credentials

import (
	"context"
	"testing"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "0123456789abcdef"

func TestVaultRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	vault, err := NewVault(store.Credentials(), key)
	require.NoError(t, err)

	ref, err := vault.Store(ctx, 1, map[string]string{"access_token": "tok"})
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	sealed, found, err := store.Credentials().Get(ctx, ref)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, sealed, "tok")

	creds, err := vault.Resolve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "tok", creds["access_token"])

	require.NoError(t, vault.Replace(ctx, ref, 1, map[string]string{"access_token": "new"}))
	creds, err = vault.Resolve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "new", creds["access_token"])

	require.NoError(t, vault.Remove(ctx, ref))
	_, err = vault.Resolve(ctx, ref)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestNewVaultRejectsBadKey(t *testing.T) {
	_, err := NewVault(memory.NewStore().Credentials(), "short")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
