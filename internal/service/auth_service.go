package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	config "github.com/maheshrc27/socialflow/configs"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/maheshrc27/socialflow/pkg/utils"
)

var errBadLogin = errors.New("incorrect email or password")

type AuthService interface {
	Register(ctx context.Context, req transfer.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req transfer.LoginRequest) (*transfer.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*transfer.TokenPair, error)
	// Authenticate resolves an access token to the actor it was issued for.
	Authenticate(ctx context.Context, accessToken string) (models.Actor, error)
	ActorFor(ctx context.Context, userID int64) (models.Actor, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.Invalid("invalid email address")
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		return "", apperror.Invalid("%s", err.Error())
	}
	return hash, err
}

func (s *authService) Register(ctx context.Context, req transfer.RegisterRequest) (*models.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	_, isExist, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if isExist {
		err = fmt.Errorf("email %s is already registered: %w", email, apperror.ErrConflict)
		slog.Info(err.Error())
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          email,
		FullName:       strings.TrimSpace(req.FullName),
		HashedPassword: hash,
		IsActive:       true,
	}
	user.ID, err = s.u.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	created, _, err := s.u.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *authService) Login(ctx context.Context, req transfer.LoginRequest) (*transfer.TokenPair, error) {
	user, isExist, err := s.u.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if !isExist || !utils.CheckPassword(user.HashedPassword, req.Password) {
		slog.Info(errBadLogin.Error())
		return nil, fmt.Errorf("%w: %w", apperror.ErrUnauthorized, errBadLogin)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user is inactive", apperror.ErrUnauthorized)
	}
	return s.issue(user.ID)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*transfer.TokenPair, error) {
	claims, err := utils.ValidateToken(s.cfg.SecretKey, refreshToken, transfer.TokenTypeRefresh)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %w", apperror.ErrUnauthorized, err)
	}
	if _, err := s.ActorFor(ctx, claims.UserID); err != nil {
		return nil, err
	}
	return s.issue(claims.UserID)
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (models.Actor, error) {
	claims, err := utils.ValidateToken(s.cfg.SecretKey, accessToken, transfer.TokenTypeAccess)
	if err != nil {
		return models.Actor{}, fmt.Errorf("%w: %w", apperror.ErrUnauthorized, err)
	}
	return s.ActorFor(ctx, claims.UserID)
}

func (s *authService) ActorFor(ctx context.Context, userID int64) (models.Actor, error) {
	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return models.Actor{}, err
	}
	if !isExist || !user.IsActive {
		return models.Actor{}, fmt.Errorf("%w: user is missing or inactive", apperror.ErrUnauthorized)
	}
	return models.Actor{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

func (s *authService) issue(userID int64) (*transfer.TokenPair, error) {
	access, err := utils.GenerateToken(s.cfg.SecretKey, userID, transfer.TokenTypeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	refresh, err := utils.GenerateToken(s.cfg.SecretKey, userID, transfer.TokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &transfer.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}
