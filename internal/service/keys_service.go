package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/pkg/utils"
)

const MaxApiKeys = 5

type ApiKeyService interface {
	// Create returns the new key in plain text. It is never shown again.
	Create(ctx context.Context, userID int64) (*models.ApiKey, error)
	List(ctx context.Context, userID int64) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (int64, error)
	RemoveAPIKey(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64) (*models.ApiKey, error) {
	n, err := s.k.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if n >= MaxApiKeys {
		err = fmt.Errorf("only %d API keys can be created: %w", MaxApiKeys, apperror.ErrConflict)
		slog.Info(err.Error())
		return nil, err
	}

	key, err := utils.GenerateAPIKey(24)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("generating API key: %w", err)
	}

	apiKey := &models.ApiKey{
		UserID: userID,
		ApiKey: key,
	}

	apiKey.ID, err = s.k.Create(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return apiKey, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	if apiKey == "" {
		return 0, apperror.ErrUnauthorized
	}
	userID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return 0, err
	}

	if !isExist {
		return 0, fmt.Errorf("%w: unknown API key", apperror.ErrUnauthorized)
	}

	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, k := range apiKeys {
		masked := k.Masked()
		apiKeys[i] = &masked
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	var err error

	if keyID <= 0 {
		err = apperror.Invalid("key id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = apperror.NotFound("api key", keyID)
		slog.Info(err.Error())
		return err
	}

	return s.k.Remove(ctx, keyID)
}
