package repository

import (
	"context"
	"fmt"

	"github.com/tasknest/tasknest/internal/model"
)

// CreateComment inserts a comment on a todo.
func (r *Repository) CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.User == nil || comment.Todo == nil {
		return fmt.Errorf("failed to create comment: user and todo are required")
	}

	query := `
		INSERT INTO comments (contents, user_id, todo_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, modified_at
	`

	err := r.pool.QueryRow(ctx, query,
		comment.Contents,
		comment.User.ID,
		comment.Todo.ID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListCommentsByTodoIDWithUser returns a todo's comments with authors loaded, oldest first.
func (r *Repository) ListCommentsByTodoIDWithUser(ctx context.Context, todoID int64) ([]*model.Comment, error) {
	query := `
		SELECT c.id, c.contents, c.created_at, c.modified_at,
		       u.id, u.email, u.user_role, u.created_at, u.modified_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.todo_id = $1
		ORDER BY c.id
	`

	rows, err := r.pool.Query(ctx, query, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var (
			comment model.Comment
			user    model.User
			role    string
		)
		err := rows.Scan(
			&comment.ID, &comment.Contents, &comment.CreatedAt, &comment.ModifiedAt,
			&user.ID, &user.Email, &role, &user.CreatedAt, &user.ModifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		user.Role = model.UserRole(role)
		comment.User = &user
		comment.Todo = &model.Todo{ID: todoID}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

// DeleteComment removes a comment. Deleting an absent comment is not an error.
func (r *Repository) DeleteComment(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
