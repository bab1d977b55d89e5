package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/audit"
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/handler/dto"
	"github.com/tasknest/tasknest/internal/model"
)

// CommentService creates, lists and deletes comments.
type CommentService interface {
	SaveComment(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.Comment, error)
	GetComments(ctx context.Context, todoID int64) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	svc    CommentService
	errors *ErrorWriter
	logger *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc CommentService, errs *ErrorWriter, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, errors: errs, logger: logger}
}

// Create handles POST /todos/{todoId}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	todoID, err := pathID(r, "todoId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	var req dto.CommentSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	comment, err := h.svc.SaveComment(r.Context(), auth.MustUserFromContext(r.Context()), todoID, req.Contents)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCommentResponse(comment))
}

// List handles GET /todos/{todoId}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	todoID, err := pathID(r, "todoId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	comments, err := h.svc.GetComments(r.Context(), todoID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCommentResponses(comments))
}

// Delete prepares DELETE /admin/comments/{commentId}.
func (h *CommentHandler) Delete(r *http.Request) (AuditCall, error) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		return AuditCall{}, err
	}

	return AuditCall{
		Params: []audit.Param{
			{Name: "commentId", Kind: audit.ParamPathVariable, Value: commentID},
		},
		Run: func(ctx context.Context) (any, error) {
			return nil, h.svc.DeleteComment(ctx, commentID)
		},
	}, nil
}
