package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/handler/dto"
	"github.com/tasknest/tasknest/internal/service"
)

// AuthService signs users up and in.
type AuthService interface {
	Signup(ctx context.Context, input service.SignupInput) (string, error)
	Signin(ctx context.Context, input service.SigninInput) (string, error)
}

// AuthHandler handles signup and signin.
type AuthHandler struct {
	svc    AuthService
	errors *ErrorWriter
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService, errs *ErrorWriter, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, errors: errs, logger: logger}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	token, err := h.svc.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		UserRole: req.UserRole,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{BearerToken: token})
}

// Signin handles POST /auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	token, err := h.svc.Signin(r.Context(), service.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{BearerToken: token})
}
