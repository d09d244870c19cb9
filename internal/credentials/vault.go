// Package credentials keeps platform secrets out of the platforms table.
// A platform row only carries an opaque reference; the sealed secret lives
// in platform_credentials and is opened on demand by the publisher.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrInvalidKey = errors.New("credentials key must be 16, 24 or 32 bytes")

type Vault struct {
	repo repository.CredentialRepository
	key  []byte
}

func NewVault(repo repository.CredentialRepository, key string) (*Vault, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKey
	}
	return &Vault{repo: repo, key: []byte(key)}, nil
}

// Store seals creds and returns the new reference.
func (v *Vault) Store(ctx context.Context, userID int64, creds map[string]string) (string, error) {
	ref, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if err := v.save(ctx, ref, userID, creds); err != nil {
		return "", err
	}
	return ref, nil
}

// Replace overwrites the secret behind an existing reference.
func (v *Vault) Replace(ctx context.Context, ref string, userID int64, creds map[string]string) error {
	return v.save(ctx, ref, userID, creds)
}

func (v *Vault) save(ctx context.Context, ref string, userID int64, creds map[string]string) error {
	plain, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	sealed, err := utils.Encrypt(plain, v.key)
	if err != nil {
		return fmt.Errorf("seal credentials: %w", err)
	}
	return v.repo.Save(ctx, ref, userID, sealed)
}

// Resolve opens the secret behind ref.
func (v *Vault) Resolve(ctx context.Context, ref string) (map[string]string, error) {
	if ref == "" {
		return map[string]string{}, nil
	}
	sealed, found, err := v.repo.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("credentials %s: %w", ref, apperror.ErrNotFound)
	}
	plain, err := utils.Decrypt(sealed, v.key)
	if err != nil {
		return nil, fmt.Errorf("open credentials: %w", err)
	}
	creds := map[string]string{}
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, nil
}

func (v *Vault) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return v.repo.Remove(ctx, ref)
}
