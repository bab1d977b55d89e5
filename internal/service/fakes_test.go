package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memStore is an in-memory implementation of every store interface.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*model.User
	todos    map[int64]*model.Todo
	managers map[int64]*model.Manager
	comments map[int64]*model.Comment
	writes   int
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*model.User),
		todos:    make(map[int64]*model.Todo),
		managers: make(map[int64]*model.Manager),
		comments: make(map[int64]*model.Comment),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(id int64, email string, role model.UserRole, password string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &model.User{ID: id, Email: email, Role: role, Password: password}
	s.users[id] = u
	if id > s.nextID {
		s.nextID = id
	}
	return u
}

func (s *memStore) addTodo(id int64, owner *model.User) *model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &model.Todo{ID: id, Title: "title", Contents: "contents", Weather: "Sunny", Owner: owner}
	s.todos[id] = t
	if id > s.nextID {
		s.nextID = id
	}
	return t
}

func (s *memStore) addManager(id int64, user *model.User, todo *model.Todo) *model.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &model.Manager{ID: id, User: user, Todo: todo}
	s.managers[id] = m
	if id > s.nextID {
		s.nextID = id
	}
	return m
}

// Users

func (s *memStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memStore) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *memStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailExists
		}
	}
	s.writes++
	user.ID = s.id()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memStore) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	s.writes++
	u.Password = hash
	return nil
}

func (s *memStore) UpdateUserRole(ctx context.Context, id int64, role model.UserRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	s.writes++
	u.Role = role
	return nil
}

// Todos

func (s *memStore) GetTodoByID(ctx context.Context, id int64) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	t, ok := s.todos[id]
	if !ok {
		return nil, repository.ErrTodoNotFound
	}
	cp := *t
	if t.Owner != nil {
		cp.Owner = model.UserRef(t.Owner.ID)
	}
	return &cp, nil
}

func (s *memStore) GetTodoByIDWithOwner(ctx context.Context, id int64) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return nil, repository.ErrTodoNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) ListTodos(ctx context.Context, page, size int) (*model.Page[*model.Todo], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return &model.Page[*model.Todo]{
		Items:         all[start:end],
		Number:        page,
		Size:          size,
		TotalElements: int64(len(all)),
	}, nil
}

func (s *memStore) CreateTodo(ctx context.Context, todo *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	todo.ID = s.id()
	cp := *todo
	s.todos[todo.ID] = &cp
	return nil
}

// Managers

func (s *memStore) GetManagerByID(ctx context.Context, id int64) (*model.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.managers[id]
	if !ok {
		return nil, repository.ErrManagerNotFound
	}
	return &model.Manager{ID: m.ID, User: model.UserRef(m.User.ID), Todo: &model.Todo{ID: m.Todo.ID}}, nil
}

func (s *memStore) ListManagersByTodoIDWithUser(ctx context.Context, todoID int64) ([]*model.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Manager
	for _, m := range s.managers {
		if m.Todo.ID == todoID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) CreateManager(ctx context.Context, manager *model.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	manager.ID = s.id()
	s.managers[manager.ID] = manager
	return nil
}

func (s *memStore) DeleteManager(ctx context.Context, manager *model.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.managers[manager.ID]; !ok {
		return repository.ErrManagerNotFound
	}
	s.writes++
	delete(s.managers, manager.ID)
	return nil
}

// Comments

func (s *memStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	comment.ID = s.id()
	s.comments[comment.ID] = comment
	return nil
}

func (s *memStore) ListCommentsByTodoIDWithUser(ctx context.Context, todoID int64) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Comment
	for _, c := range s.comments {
		if c.Todo.ID == todoID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) DeleteComment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	delete(s.comments, id)
	return nil
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// plainHasher stores passwords with a visible prefix.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Matches(password, hash string) bool { return hash == "hashed:"+password }

// stubTokens issues deterministic tokens.
type stubTokens struct{}

func (stubTokens) Issue(user *model.User) (string, error) {
	return "Bearer token-for-" + user.Email, nil
}

type stubWeather struct {
	weather string
	err     error
}

func (w stubWeather) GetTodayWeather(ctx context.Context) (string, error) {
	return w.weather, w.err
}
