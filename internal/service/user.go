package service

import (
	"context"
	"log/slog"
	"unicode"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

const minPasswordLength = 8

// UserService handles account lookups and changes.
type UserService struct {
	users  UserStore
	hasher PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, hasher PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: logger.With("component", "service.user"),
	}
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, repository.ErrUserNotFound, MsgUserNotFound)
	}
	return user, nil
}

// ChangePasswordInput defines input for a password change.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// ChangePassword replaces the user's password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, input ChangePasswordInput) error {
	if !ValidPassword(input.NewPassword) {
		return apperr.InvalidRequest(MsgWeakPassword)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return lookupErr(err, repository.ErrUserNotFound, MsgUserNotFound)
	}

	if s.hasher.Matches(input.NewPassword, user.Password) {
		return apperr.InvalidRequest(MsgSamePassword)
	}
	if !s.hasher.Matches(input.OldPassword, user.Password) {
		return apperr.InvalidRequest(MsgWrongPassword)
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return apperr.Server("failed to hash password", err)
	}
	if err := s.users.UpdateUserPassword(ctx, userID, hash); err != nil {
		return lookupErr(err, repository.ErrUserNotFound, MsgUserNotFound)
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

// ChangeUserRole sets a user's role. role is parsed case-insensitively.
func (s *UserService) ChangeUserRole(ctx context.Context, userID int64, role string) error {
	parsed, ok := model.ParseUserRole(role)
	if !ok {
		return apperr.InvalidRequest(MsgInvalidUserRole)
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return lookupErr(err, repository.ErrUserNotFound, MsgUserNotFound)
	}

	if err := s.users.UpdateUserRole(ctx, userID, parsed); err != nil {
		return lookupErr(err, repository.ErrUserNotFound, MsgUserNotFound)
	}

	s.logger.InfoContext(ctx, "user role changed", "user_id", userID, "role", parsed)
	return nil
}

// ValidPassword reports whether password meets the policy: at least eight
// characters with a digit and an uppercase letter.
func ValidPassword(password string) bool {
	if len([]rune(password)) < minPasswordLength {
		return false
	}
	var hasDigit, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	return hasDigit && hasUpper
}
