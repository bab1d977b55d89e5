package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

// AuthService handles signup and signin.
type AuthService struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger.With("component", "service.auth"),
		metrics: recorder,
	}
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Email    string
	Password string
	UserRole string
}

// Signup registers a new account and returns a bearer token for it.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (string, error) {
	email := strings.TrimSpace(input.Email)

	exists, err := s.users.UserExistsByEmail(ctx, email)
	if err != nil {
		return "", storeErr(err)
	}
	if exists {
		return "", apperr.InvalidRequest(MsgEmailExists)
	}

	role, ok := model.ParseUserRole(input.UserRole)
	if !ok {
		return "", apperr.InvalidRequest(MsgInvalidUserRole)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", apperr.Server("failed to hash password", err)
	}

	user := &model.User{Email: email, Password: hash, Role: role}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			return "", apperr.InvalidRequest(MsgEmailExists)
		}
		return "", storeErr(err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", apperr.Server("failed to issue token", err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "role", user.Role)
	s.metrics.IncUserSignedUp()

	return token, nil
}

// SigninInput defines input for signing in.
type SigninInput struct {
	Email    string
	Password string
}

// Signin checks credentials and returns a bearer token.
func (s *AuthService) Signin(ctx context.Context, input SigninInput) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		s.metrics.IncSignIn(metrics.StatusFailed)
		return "", lookupErr(err, repository.ErrUserNotFound, MsgUserNotRegistered)
	}

	if !s.hasher.Matches(input.Password, user.Password) {
		s.metrics.IncSignIn(metrics.StatusFailed)
		return "", apperr.Auth(MsgWrongPassword)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", apperr.Server("failed to issue token", err)
	}

	s.metrics.IncSignIn(metrics.StatusSuccess)
	return token, nil
}
