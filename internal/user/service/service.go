// Package service provides business logic layer for user module.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/festy23/useradmin/internal/user/model"
	"github.com/festy23/useradmin/internal/user/repository"
)

// Service defines the interface for user business logic operations.
type Service interface {
	// List returns all users.
	List(ctx context.Context) ([]model.User, error)

	// Get returns a single user by id.
	Get(ctx context.Context, id int64) (*model.User, error)

	// Update applies a partial update to a user.
	Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)

	// Delete removes a user.
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new user service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, logger: logger}
}

// List returns all users.
func (s *service) List(ctx context.Context) ([]model.User, error) {
	s.logger.Debugw("List called")

	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Errorw("List failed", "error", err)
		return nil, err
	}

	s.logger.Debugw("List completed", "count", len(users))
	return users, nil
}

// Get returns a single user by id.
func (s *service) Get(ctx context.Context, id int64) (*model.User, error) {
	s.logger.Debugw("Get called", "id", id)

	if id <= 0 {
		s.logger.Debugw("Get validation failed", "error", "non-positive id")
		return nil, model.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Debugw("Get failed", "id", id, "error", err)
		return nil, err
	}

	return user, nil
}

// Update applies a partial update to a user.
func (s *service) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	s.logger.Debugw("Update called", "id", id)

	if id <= 0 {
		s.logger.Debugw("Update validation failed", "error", "non-positive id")
		return nil, model.ErrInvalidUserID
	}

	if patch.IsEmpty() {
		s.logger.Debugw("Update validation failed", "error", "empty patch")
		return nil, model.ErrEmptyPatch
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Errorw("Update failed", "id", id, "error", err)
		return nil, err
	}

	s.logger.Infow("Update completed", "id", id)
	return user, nil
}

// Delete removes a user.
func (s *service) Delete(ctx context.Context, id int64) error {
	s.logger.Debugw("Delete called", "id", id)

	if id <= 0 {
		s.logger.Debugw("Delete validation failed", "error", "non-positive id")
		return model.ErrInvalidUserID
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Errorw("Delete failed", "id", id, "error", err)
		return err
	}

	s.logger.Infow("Delete completed", "id", id)
	return nil
}
