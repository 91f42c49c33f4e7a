// Package repository provides data access layer for user module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/useradmin/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// List returns all users in insertion order.
	List(ctx context.Context) ([]model.User, error)

	// GetByID finds a user by id.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// Update applies a partial update and returns the updated user.
	Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)

	// Delete removes a user and its documents.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of users.
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new user repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// List returns all users in insertion order.
func (r *repository) List(ctx context.Context) ([]model.User, error) {
	r.logger.Debugw("List called")

	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Order("id ASC").
		Find(&users).Error

	if err != nil {
		r.logger.Errorw("List database error", "error", err)
		return nil, err
	}

	if users == nil {
		users = []model.User{}
	}

	r.logger.Debugw("List completed", "count", len(users))
	return users, nil
}

// GetByID finds a user by id.
func (r *repository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.logger.Debugw("GetByID called", "id", id)

	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("GetByID user not found", "id", id)
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByID database error", "id", id, "error", err)
		return nil, err
	}

	return &user, nil
}

// Update applies a partial update and returns the updated user.
func (r *repository) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	r.logger.Infow("Update called", "id", id, "fields", patch.Fields())

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(patch.Fields())

	if result.Error != nil {
		r.logger.Errorw("Update database error", "id", id, "error", result.Error)
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Debugw("Update user not found", "id", id)
		return nil, model.ErrUserNotFound
	}

	// Fetch updated user
	user, err := r.GetByID(ctx, id)
	if err != nil {
		r.logger.Errorw("Update failed to fetch updated user", "id", id, "error", err)
		return nil, err
	}

	r.logger.Infow("Update completed", "id", id)
	return user, nil
}

// Delete removes a user and its documents.
func (r *repository) Delete(ctx context.Context, id int64) error {
	r.logger.Infow("Delete called", "id", id)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Document{}).Error; err != nil {
			r.logger.Errorw("Delete documents database error", "id", id, "error", err)
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			r.logger.Errorw("Delete database error", "id", id, "error", result.Error)
			return result.Error
		}

		if result.RowsAffected == 0 {
			r.logger.Debugw("Delete user not found", "id", id)
			return model.ErrUserNotFound
		}

		r.logger.Infow("Delete completed", "id", id)
		return nil
	})
}

// Count returns the number of users.
func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	if err != nil {
		r.logger.Errorw("Count database error", "error", err)
		return 0, err
	}
	return count, nil
}
