package service

import (
	"context"
	"log/slog"

	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

// Paging defaults for todo listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TodoService handles todo business logic.
type TodoService struct {
	todos   TodoStore
	weather WeatherClient
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos TodoStore, weather WeatherClient, logger *slog.Logger, recorder metrics.Recorder) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		todos:   todos,
		weather: weather,
		logger:  logger.With("component", "service.todo"),
		metrics: recorder,
	}
}

// SaveTodoInput defines input for creating a todo.
type SaveTodoInput struct {
	Title    string
	Contents string
}

// SaveTodo creates a todo owned by authUser, stamped with today's weather.
func (s *TodoService) SaveTodo(ctx context.Context, authUser model.AuthUser, input SaveTodoInput) (*model.Todo, error) {
	weather, err := s.weather.GetTodayWeather(ctx)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{
		Title:    input.Title,
		Contents: input.Contents,
		Weather:  weather,
		Owner:    model.UserFromAuth(authUser),
	}
	if err := s.todos.CreateTodo(ctx, todo); err != nil {
		return nil, storeErr(err)
	}

	s.logger.InfoContext(ctx, "todo created", "todo_id", todo.ID, "user_id", authUser.ID)
	s.metrics.IncTodoCreated()

	return todo, nil
}

// GetTodos returns one page of todos, most recently modified first.
// Out-of-range paging values fall back to the defaults.
func (s *TodoService) GetTodos(ctx context.Context, page, size int) (*model.Page[*model.Todo], error) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	result, err := s.todos.ListTodos(ctx, page, size)
	if err != nil {
		return nil, storeErr(err)
	}
	return result, nil
}

// GetTodo returns a todo with its owner loaded.
func (s *TodoService) GetTodo(ctx context.Context, todoID int64) (*model.Todo, error) {
	todo, err := s.todos.GetTodoByIDWithOwner(ctx, todoID)
	if err != nil {
		return nil, lookupErr(err, repository.ErrTodoNotFound, MsgTodoNotFound)
	}
	return todo, nil
}
