package dto

import (
	"time"

	"github.com/tasknest/tasknest/internal/model"
)

// TodoSaveRequest is the body of POST /todos.
type TodoSaveRequest struct {
	Title    string `json:"title"`
	Contents string `json:"contents"`
}

// Validate checks required fields.
func (r TodoSaveRequest) Validate() error {
	if err := required(r.Title, "title"); err != nil {
		return err
	}
	return required(r.Contents, "contents")
}

// TodoSaveResponse is returned after a todo is created.
type TodoSaveResponse struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Contents string        `json:"contents"`
	Weather  string        `json:"weather"`
	User     *UserResponse `json:"user"`
}

// TodoResponse is a todo in read responses.
type TodoResponse struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Contents   string        `json:"contents"`
	Weather    string        `json:"weather"`
	User       *UserResponse `json:"user"`
	CreatedAt  time.Time     `json:"createdAt"`
	ModifiedAt time.Time     `json:"modifiedAt"`
}

// TodoPageResponse is one page of todos.
type TodoPageResponse struct {
	Content       []TodoResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

// ToTodoSaveResponse converts a created todo.
func ToTodoSaveResponse(todo *model.Todo) *TodoSaveResponse {
	return &TodoSaveResponse{
		ID:       todo.ID,
		Title:    todo.Title,
		Contents: todo.Contents,
		Weather:  todo.Weather,
		User:     ToUserResponse(todo.Owner),
	}
}

// ToTodoResponse converts a todo for read responses.
func ToTodoResponse(todo *model.Todo) *TodoResponse {
	return &TodoResponse{
		ID:         todo.ID,
		Title:      todo.Title,
		Contents:   todo.Contents,
		Weather:    todo.Weather,
		User:       ToUserResponse(todo.Owner),
		CreatedAt:  todo.CreatedAt,
		ModifiedAt: todo.ModifiedAt,
	}
}

// ToTodoPageResponse converts a page of todos.
func ToTodoPageResponse(page *model.Page[*model.Todo]) *TodoPageResponse {
	content := make([]TodoResponse, len(page.Items))
	for i, todo := range page.Items {
		content[i] = *ToTodoResponse(todo)
	}
	return &TodoPageResponse{
		Content:       content,
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
	}
}
