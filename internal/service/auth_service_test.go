package service

import (
	"context"
	"testing"
	"time"

	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/repository/memory"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth() (AuthService, *memory.Store) {
	store := memory.NewStore()
	cfg := config.Config{
		SecretKey:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	return NewAuthService(cfg, store.Users()), store
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth, _ := newAuth()

	user, err := auth.Register(ctx, transfer.RegisterRequest{Email: " Ana@Example.com ", Password: "correct-horse", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.HashedPassword)

	_, err = auth.Register(ctx, transfer.RegisterRequest{Email: "ANA@example.com", Password: "another-one"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	tokens, err := auth.Login(ctx, transfer.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, int64(60), tokens.ExpiresIn)

	actor, err := auth.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.False(t, actor.IsAdmin)

	_, err = auth.Login(ctx, transfer.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = auth.Login(ctx, transfer.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRegisterValidates(t *testing.T) {
	auth, _ := newAuth()
	_, err := auth.Register(context.Background(), transfer.RegisterRequest{Email: "not-an-email", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = auth.Register(context.Background(), transfer.RegisterRequest{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	auth, store := newAuth()

	user, err := auth.Register(ctx, transfer.RegisterRequest{Email: "bo@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	tokens, err := auth.Login(ctx, transfer.LoginRequest{Email: "bo@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = auth.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized, "access tokens cannot refresh")
	_, err = auth.Authenticate(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized, "refresh tokens cannot authenticate")

	refreshed, err := auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	user.IsActive = false
	require.NoError(t, store.Users().Update(ctx, user))
	_, err = auth.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = auth.Authenticate(ctx, refreshed.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUserServiceAccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	users := NewUserService(e.store.Users())

	_, err := users.GetUserInfo(ctx, e.other, e.owner.UserID)
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)

	name := "  Owner  "
	updated, err := users.Update(ctx, e.owner, e.owner.UserID, transfer.UpdateUserRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Owner", updated.FullName)

	_, err = users.List(ctx, e.owner, 0, 0)
	assert.ErrorIs(t, err, apperror.ErrAccessDenied)
	all, err := users.List(ctx, e.admin, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, users.RemoveUser(ctx, e.owner, e.other.UserID), apperror.ErrAccessDenied)
	require.NoError(t, users.RemoveUser(ctx, e.admin, e.other.UserID))
	assert.ErrorIs(t, users.RemoveUser(ctx, e.admin, e.other.UserID), apperror.ErrNotFound)
}
