package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/handler/dto"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/service"
)

// TodoService creates and reads todos.
type TodoService interface {
	SaveTodo(ctx context.Context, authUser model.AuthUser, input service.SaveTodoInput) (*model.Todo, error)
	GetTodos(ctx context.Context, page, size int) (*model.Page[*model.Todo], error)
	GetTodo(ctx context.Context, todoID int64) (*model.Todo, error)
}

// TodoHandler handles todo endpoints.
type TodoHandler struct {
	svc    TodoService
	errors *ErrorWriter
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc TodoService, errs *ErrorWriter, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, errors: errs, logger: logger}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TodoSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	todo, err := h.svc.SaveTodo(r.Context(), auth.MustUserFromContext(r.Context()), service.SaveTodoInput{
		Title:    req.Title,
		Contents: req.Contents,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	h.logger.Info("todo_created", "todo_id", todo.ID, "weather", todo.Weather)

	writeJSON(w, http.StatusOK, dto.ToTodoSaveResponse(todo))
}

// List handles GET /todos?page=&size=. Missing values fall back to the
// service defaults.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	result, err := h.svc.GetTodos(r.Context(), page, size)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoPageResponse(result))
}

// Get handles GET /todos/{todoId}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todoID, err := pathID(r, "todoId")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	todo, err := h.svc.GetTodo(r.Context(), todoID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}
