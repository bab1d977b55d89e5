// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/model"
)

// Client-facing messages.
const (
	MsgTodoNotFound     = "Todo not found"
	MsgUserNotFound     = "User not found"
	MsgManagerNotFound  = "Manager not found"
	MsgInvalidCreator   = "user assigning a manager is not the todo's valid creator"
	MsgSelfAssignment   = "todo creator cannot assign themselves as a manager"
	MsgCreatorNotValid  = "the todo's creator is not valid"
	MsgManagerNotOnTodo = "manager is not registered on this todo"

	MsgEmailExists       = "email already exists"
	MsgInvalidUserRole   = "invalid user role"
	MsgUserNotRegistered = "user is not registered"
	MsgWrongPassword     = "wrong password"
	MsgSamePassword      = "new password cannot be the same as the old password"
	MsgWeakPassword      = "new password must be at least 8 characters and contain a digit and an uppercase letter"
)

// UserStore persists users.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUserPassword(ctx context.Context, id int64, hash string) error
	UpdateUserRole(ctx context.Context, id int64, role model.UserRole) error
}

// TodoStore persists todos.
type TodoStore interface {
	GetTodoByID(ctx context.Context, id int64) (*model.Todo, error)
	GetTodoByIDWithOwner(ctx context.Context, id int64) (*model.Todo, error)
	ListTodos(ctx context.Context, page, size int) (*model.Page[*model.Todo], error)
	CreateTodo(ctx context.Context, todo *model.Todo) error
}

// ManagerStore persists manager assignments.
type ManagerStore interface {
	GetManagerByID(ctx context.Context, id int64) (*model.Manager, error)
	ListManagersByTodoIDWithUser(ctx context.Context, todoID int64) ([]*model.Manager, error)
	CreateManager(ctx context.Context, manager *model.Manager) error
	DeleteManager(ctx context.Context, manager *model.Manager) error
}

// CommentStore persists comments.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListCommentsByTodoIDWithUser(ctx context.Context, todoID int64) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// WeatherClient supplies the weather recorded on new todos.
type WeatherClient interface {
	GetTodayWeather(ctx context.Context) (string, error)
}

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(password, hash string) bool
}

// TokenIssuer creates bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// lookupErr maps a store lookup failure: the store's not-found sentinel
// becomes an invalid request carrying msg, anything else a server error.
func lookupErr(err, notFound error, msg string) error {
	if errors.Is(err, notFound) {
		return apperr.InvalidRequest(msg)
	}
	return storeErr(err)
}

// storeErr wraps an unexpected store failure.
func storeErr(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Server("database error", err)
}
