package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/handler/dto"
	"github.com/tasknest/tasknest/internal/model"
)

// ManagerService assigns, lists and removes todo managers.
type ManagerService interface {
	GetManagers(ctx context.Context, todoID int64) ([]*model.Manager, error)
	SaveManager(ctx context.Context, authUser model.AuthUser, todoID, candidateUserID int64) (*model.Manager, error)
	DeleteManager(ctx context.Context, actingUserID, todoID, managerID int64) error
}

// ManagerHandler handles manager endpoints.
type ManagerHandler struct {
	svc    ManagerService
	errors *ErrorWriter
	logger *slog.Logger
}

// NewManagerHandler creates a new ManagerHandler.
func NewManagerHandler(svc ManagerService, errs *ErrorWriter, logger *slog.Logger) *ManagerHandler {
	return &ManagerHandler{svc: svc, errors: errs, logger: logger}
}

// Create handles POST /todos/{todoId}/managers.
func (h *ManagerHandler) Create(w http.ResponseWriter, r *http.Request) {
	todoID, err := pathID(r, "todoId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	var req dto.ManagerSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	manager, err := h.svc.SaveManager(r.Context(), auth.MustUserFromContext(r.Context()), todoID, req.ManagerUserID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToManagerResponse(manager))
}

// List handles GET /todos/{todoId}/managers.
func (h *ManagerHandler) List(w http.ResponseWriter, r *http.Request) {
	todoID, err := pathID(r, "todoId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	managers, err := h.svc.GetManagers(r.Context(), todoID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToManagerResponses(managers))
}

// Delete handles DELETE /todos/{todoId}/managers/{managerId}.
func (h *ManagerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	todoID, err := pathID(r, "todoId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	managerID, err := pathID(r, "managerId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	authUser := auth.MustUserFromContext(r.Context())
	if err := h.svc.DeleteManager(r.Context(), authUser.ID, todoID, managerID); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
