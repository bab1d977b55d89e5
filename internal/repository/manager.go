package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tasknest/tasknest/internal/model"
)

// ErrManagerNotFound is returned when no manager assignment matches.
var ErrManagerNotFound = errors.New("manager not found")

// CreateManager records a manager assignment.
func (r *Repository) CreateManager(ctx context.Context, manager *model.Manager) error {
	if manager.User == nil || manager.Todo == nil {
		return fmt.Errorf("failed to create manager: user and todo are required")
	}

	query := `
		INSERT INTO managers (user_id, todo_id)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query, manager.User.ID, manager.Todo.ID).Scan(&manager.ID); err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}

	return nil
}

// GetManagerByID retrieves an assignment with id-only user and todo references.
func (r *Repository) GetManagerByID(ctx context.Context, id int64) (*model.Manager, error) {
	query := `SELECT id, user_id, todo_id FROM managers WHERE id = $1`

	var (
		manager        model.Manager
		userID, todoID int64
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(&manager.ID, &userID, &todoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}

	manager.User = model.UserRef(userID)
	manager.Todo = &model.Todo{ID: todoID}

	return &manager, nil
}

// ListManagersByTodoIDWithUser returns a todo's managers with users loaded, by id.
func (r *Repository) ListManagersByTodoIDWithUser(ctx context.Context, todoID int64) ([]*model.Manager, error) {
	query := `
		SELECT m.id, u.id, u.email, u.user_role, u.created_at, u.modified_at
		FROM managers m
		JOIN users u ON u.id = m.user_id
		WHERE m.todo_id = $1
		ORDER BY m.id
	`

	rows, err := r.pool.Query(ctx, query, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	var managers []*model.Manager
	for rows.Next() {
		var (
			manager model.Manager
			user    model.User
			role    string
		)
		if err := rows.Scan(&manager.ID, &user.ID, &user.Email, &role, &user.CreatedAt, &user.ModifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		user.Role = model.UserRole(role)
		manager.User = &user
		manager.Todo = &model.Todo{ID: todoID}
		managers = append(managers, &manager)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating managers: %w", err)
	}

	return managers, nil
}

// DeleteManager removes an assignment.
func (r *Repository) DeleteManager(ctx context.Context, manager *model.Manager) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM managers WHERE id = $1`, manager.ID)
	if err != nil {
		return fmt.Errorf("failed to delete manager: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrManagerNotFound
	}

	return nil
}
