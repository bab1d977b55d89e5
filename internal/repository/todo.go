package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tasknest/tasknest/internal/model"
)

// ErrTodoNotFound is returned when no todo matches the lookup.
var ErrTodoNotFound = errors.New("todo not found")

// CreateTodo inserts a todo. A nil Owner is stored as a NULL user_id.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (title, contents, weather, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, modified_at
	`

	var ownerID *int64
	if id, ok := todo.OwnerID(); ok {
		ownerID = &id
	}

	err := r.pool.QueryRow(ctx, query,
		todo.Title,
		todo.Contents,
		todo.Weather,
		ownerID,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetTodoByID retrieves a todo. The owner, if any, is an id-only reference.
func (r *Repository) GetTodoByID(ctx context.Context, id int64) (*model.Todo, error) {
	query := `
		SELECT id, title, contents, weather, user_id, created_at, modified_at
		FROM todos
		WHERE id = $1
	`

	var (
		todo    model.Todo
		ownerID *int64
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Contents,
		&todo.Weather,
		&ownerID,
		&todo.CreatedAt,
		&todo.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	if ownerID != nil {
		todo.Owner = model.UserRef(*ownerID)
	}

	return &todo, nil
}

// GetTodoByIDWithOwner retrieves a todo with its owner fully loaded.
func (r *Repository) GetTodoByIDWithOwner(ctx context.Context, id int64) (*model.Todo, error) {
	query := `
		SELECT t.id, t.title, t.contents, t.weather, t.created_at, t.modified_at,
		       u.id, u.email, u.user_role, u.created_at, u.modified_at
		FROM todos t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`

	todo, err := scanTodoWithOwner(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo with owner: %w", err)
	}

	return todo, nil
}

// ListTodos returns one 1-based page of todos, most recently modified first.
func (r *Repository) ListTodos(ctx context.Context, page, size int) (*model.Page[*model.Todo], error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM todos`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}

	query := `
		SELECT t.id, t.title, t.contents, t.weather, t.created_at, t.modified_at,
		       u.id, u.email, u.user_role, u.created_at, u.modified_at
		FROM todos t
		LEFT JOIN users u ON u.id = t.user_id
		ORDER BY t.modified_at DESC, t.id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, size, pageOffset(page, size))
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	items := make([]*model.Todo, 0, size)
	for rows.Next() {
		todo, err := scanTodoWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		items = append(items, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return &model.Page[*model.Todo]{
		Items:         items,
		Number:        page,
		Size:          size,
		TotalElements: total,
	}, nil
}

func scanTodoWithOwner(row pgx.Row) (*model.Todo, error) {
	var (
		todo                        model.Todo
		ownerID                     *int64
		ownerEmail, ownerRole       *string
		ownerCreated, ownerModified *time.Time
	)
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Contents,
		&todo.Weather,
		&todo.CreatedAt,
		&todo.ModifiedAt,
		&ownerID,
		&ownerEmail,
		&ownerRole,
		&ownerCreated,
		&ownerModified,
	)
	if err != nil {
		return nil, err
	}

	if ownerID != nil {
		todo.Owner = &model.User{
			ID:         *ownerID,
			Email:      deref(ownerEmail),
			Role:       model.UserRole(deref(ownerRole)),
			CreatedAt:  derefTime(ownerCreated),
			ModifiedAt: derefTime(ownerModified),
		}
	}

	return &todo, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
