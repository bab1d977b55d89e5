package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/audit"
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/handler/dto"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/service"
)

// UserService reads users and changes their credentials or role.
type UserService interface {
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	ChangePassword(ctx context.Context, userID int64, input service.ChangePasswordInput) error
	ChangeUserRole(ctx context.Context, userID int64, role string) error
}

// UserHandler handles user endpoints.
type UserHandler struct {
	svc    UserService
	errors *ErrorWriter
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService, errs *ErrorWriter, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, errors: errs, logger: logger}
}

// Get handles GET /users/{userId}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// ChangePassword handles PUT /users for the requester.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	authUser := auth.MustUserFromContext(r.Context())
	err := h.svc.ChangePassword(r.Context(), authUser.ID, service.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ChangeRole prepares PATCH /admin/users/{userId}.
func (h *UserHandler) ChangeRole(r *http.Request) (AuditCall, error) {
	userID, err := pathID(r, "userId")
	if err != nil {
		return AuditCall{}, err
	}
	var req dto.UserRoleChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		return AuditCall{}, err
	}

	return AuditCall{
		Params: []audit.Param{
			{Name: "userId", Kind: audit.ParamPathVariable, Value: userID},
			{Name: "userRoleChangeRequest", Kind: audit.ParamRequestBody, Value: req},
		},
		Run: func(ctx context.Context) (any, error) {
			return nil, h.svc.ChangeUserRole(ctx, userID, req.Role)
		},
	}, nil
}
