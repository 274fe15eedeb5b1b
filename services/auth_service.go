// file: services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"go-refdata/logger"
	"go-refdata/metrics"
	"go-refdata/models"
	"go-refdata/repository"
)

// Account errors. A taken username is reported as repository.ErrUsernameTaken.
var (
	ErrPasswordMismatch = errors.New("entered passwords do not match")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUnknownUser      = errors.New("invalid username")
	ErrWrongPassword    = errors.New("invalid password")
)

// UserStore is the credential store the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// AuthServiceInterface is what the handlers and the admin gate depend on.
type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) error
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	IsAdmin(ctx context.Context, username string) (bool, error)
}

var _ AuthServiceInterface = (*AuthService)(nil)

// RegisterInput is the registration form.
type RegisterInput struct {
	Username  string
	Password1 string
	Password2 string
	Role      string
}

type AuthService struct {
	users   UserStore
	hasher  PasswordHasher
	metrics metrics.Publisher
}

// NewAuthService builds an AuthService. A nil publisher disables metrics.
func NewAuthService(users UserStore, hasher PasswordHasher, pub metrics.Publisher) *AuthService {
	if pub == nil {
		pub = metrics.Noop{}
	}
	return &AuthService{users: users, hasher: hasher, metrics: pub}
}

// Register validates in order: username free, passwords equal, role known.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	_, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		logger.Warningf("[Register] username '%s' already exists", in.Username)
		return repository.ErrUsernameTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return err
	}

	if in.Password1 != in.Password2 {
		logger.Warningf("[Register] password mismatch for '%s'", in.Username)
		return ErrPasswordMismatch
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}

	hash, err := s.hasher.Hash(in.Password1)
	if errors.Is(err, ErrPasswordTooLong) {
		logger.Warningf("[Register] password too long for '%s'", in.Username)
		return err
	}
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Username: in.Username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	s.metrics.Count(ctx, metrics.UserRegistered, "")
	logger.Infof("[Register] created %s user '%s'", role, u.Username)
	return nil
}

// Authenticate returns the user when the password matches its stored hash.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.metrics.Count(ctx, metrics.LoginFailed, "")
		logger.Warningf("[Authenticate] unknown username '%s'", username)
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		s.metrics.Count(ctx, metrics.LoginFailed, "")
		logger.Warningf("[Authenticate] wrong password for '%s'", username)
		return nil, ErrWrongPassword
	}
	s.metrics.Count(ctx, metrics.LoginSucceeded, "")
	return u, nil
}

// IsAdmin reports whether username holds the admin role. An empty or unknown
// username is not an admin; only store failures return an error.
func (s *AuthService) IsAdmin(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Role.IsAdmin(), nil
}

// EnsureAdmin creates an admin account when both credentials are configured
// and the username is free. Existing accounts are left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		logger.Debugf("[EnsureAdmin] '%s' already exists", username)
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, &models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin}); err != nil {
		return err
	}
	logger.Infof("[EnsureAdmin] bootstrap admin '%s' created", username)
	return nil
}
