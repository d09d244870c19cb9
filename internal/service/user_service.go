package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/repository"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

type UserService interface {
	GetUserInfo(ctx context.Context, actor models.Actor, id int64) (*models.User, error)
	List(ctx context.Context, actor models.Actor, skip, limit int) ([]*models.User, error)
	Update(ctx context.Context, actor models.Actor, id int64, req transfer.UpdateUserRequest) (*models.User, error)
	RemoveUser(ctx context.Context, actor models.Actor, id int64) error
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, actor models.Actor, id int64) (*models.User, error) {
	if !actor.CanAccess(id) {
		return nil, fmt.Errorf("user %d: %w", id, apperror.ErrAccessDenied)
	}

	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isExist {
		err = apperror.NotFound("user", id)
		slog.Info(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actor models.Actor, skip, limit int) ([]*models.User, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("listing users: %w", apperror.ErrAccessDenied)
	}
	skip, limit, err := Page(skip, limit)
	if err != nil {
		return nil, err
	}
	return s.u.List(ctx, skip, limit)
}

func (s *userService) Update(ctx context.Context, actor models.Actor, id int64, req transfer.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserInfo(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hash
	}

	if err := s.u.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetUserInfo(ctx, actor, id)
}

// RemoveUser deletes the user together with everything they own.
func (s *userService) RemoveUser(ctx context.Context, actor models.Actor, id int64) error {
	if !actor.IsAdmin {
		return fmt.Errorf("deleting user %d: %w", id, apperror.ErrAccessDenied)
	}
	_, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isExist {
		return apperror.NotFound("user", id)
	}
	return s.u.Remove(ctx, id)
}
