// File: repository/user_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-refdata/logger"
	"go-refdata/models"
)

// Credential store errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepository is the credential store over the users table.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository wraps a gorm handle.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u and fills in its ID. The unique index on username is the
// authoritative duplicate check.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.Warningf("[Repo] username '%s' already taken", u.Username)
		return ErrUsernameTaken
	}
	if err != nil {
		logger.Errorf("[Repo] failed to create user '%s': %v", u.Username, err)
		return fmt.Errorf("create user: %w", err)
	}
	logger.Infof("[Repo] user '%s' created with ID %d", u.Username, u.ID)
	return nil
}

// FindByUsername returns ErrUserNotFound when no row matches.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// List returns every account without password hashes.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Select("id", "username", "role").Order("id").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
