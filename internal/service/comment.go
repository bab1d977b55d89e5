package service

import (
	"context"
	"log/slog"

	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

// CommentService handles comment business logic.
type CommentService struct {
	todos    TodoStore
	comments CommentStore
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewCommentService creates a new CommentService.
func NewCommentService(todos TodoStore, comments CommentStore, logger *slog.Logger, recorder metrics.Recorder) *CommentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CommentService{
		todos:    todos,
		comments: comments,
		logger:   logger.With("component", "service.comment"),
		metrics:  recorder,
	}
}

// SaveComment adds a comment by authUser to an existing todo.
func (s *CommentService) SaveComment(ctx context.Context, authUser model.AuthUser, todoID int64, contents string) (*model.Comment, error) {
	todo, err := s.todos.GetTodoByID(ctx, todoID)
	if err != nil {
		return nil, lookupErr(err, repository.ErrTodoNotFound, MsgTodoNotFound)
	}

	comment := &model.Comment{
		Contents: contents,
		User:     model.UserFromAuth(authUser),
		Todo:     todo,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, storeErr(err)
	}

	s.metrics.IncCommentCreated()
	return comment, nil
}

// GetComments lists a todo's comments with their authors.
func (s *CommentService) GetComments(ctx context.Context, todoID int64) ([]*model.Comment, error) {
	comments, err := s.comments.ListCommentsByTodoIDWithUser(ctx, todoID)
	if err != nil {
		return nil, storeErr(err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Deleting a missing comment succeeds.
func (s *CommentService) DeleteComment(ctx context.Context, commentID int64) error {
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return storeErr(err)
	}

	s.logger.InfoContext(ctx, "comment deleted", "comment_id", commentID)
	s.metrics.IncCommentDeleted()
	return nil
}
