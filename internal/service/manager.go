package service

import (
	"context"
	"log/slog"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/repository"
)

// ManagerService decides who may assign and remove managers on a todo.
// Only a todo's owner may change its managers.
type ManagerService struct {
	users    UserStore
	todos    TodoStore
	managers ManagerStore
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewManagerService creates a new ManagerService.
func NewManagerService(users UserStore, todos TodoStore, managers ManagerStore, logger *slog.Logger, recorder metrics.Recorder) *ManagerService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ManagerService{
		users:    users,
		todos:    todos,
		managers: managers,
		logger:   logger.With("component", "service.manager"),
		metrics:  recorder,
	}
}

// GetManagers lists a todo's managers with their users, in store order.
func (s *ManagerService) GetManagers(ctx context.Context, todoID int64) ([]*model.Manager, error) {
	if _, err := s.todos.GetTodoByID(ctx, todoID); err != nil {
		return nil, lookupErr(err, repository.ErrTodoNotFound, MsgTodoNotFound)
	}

	managers, err := s.managers.ListManagersByTodoIDWithUser(ctx, todoID)
	if err != nil {
		return nil, storeErr(err)
	}
	return managers, nil
}

// SaveManager assigns candidateUserID as a manager of the todo on behalf
// of authUser. The returned manager carries the candidate's id and email.
func (s *ManagerService) SaveManager(ctx context.Context, authUser model.AuthUser, todoID, candidateUserID int64) (*model.Manager, error) {
	todo, err := s.todos.GetTodoByID(ctx, todoID)
	if err != nil {
		return nil, lookupErr(err, repository.ErrTodoNotFound, MsgTodoNotFound)
	}

	if !todo.IsOwnedBy(authUser.ID) {
		return nil, apperr.InvalidRequest(MsgInvalidCreator)
	}

	if candidateUserID == authUser.ID {
		return nil, apperr.InvalidRequest(MsgSelfAssignment)
	}

	candidate, err := s.users.GetUserByID(ctx, candidateUserID)
	if err != nil {
		return nil, lookupErr(err, repository.ErrUserNotFound, MsgUserNotFound)
	}

	manager := &model.Manager{User: candidate, Todo: todo}
	if err := s.managers.CreateManager(ctx, manager); err != nil {
		return nil, storeErr(err)
	}

	s.logger.InfoContext(ctx, "manager assigned",
		"todo_id", todoID,
		"manager_id", manager.ID,
		"user_id", candidate.ID,
	)
	s.metrics.IncManagerAssigned()

	return manager, nil
}

// DeleteManager removes managerID from the todo on behalf of actingUserID.
func (s *ManagerService) DeleteManager(ctx context.Context, actingUserID, todoID, managerID int64) error {
	if _, err := s.users.GetUserByID(ctx, actingUserID); err != nil {
		return lookupErr(err, repository.ErrUserNotFound, MsgUserNotFound)
	}

	todo, err := s.todos.GetTodoByID(ctx, todoID)
	if err != nil {
		return lookupErr(err, repository.ErrTodoNotFound, MsgTodoNotFound)
	}

	if !todo.IsOwnedBy(actingUserID) {
		return apperr.InvalidRequest(MsgCreatorNotValid)
	}

	manager, err := s.managers.GetManagerByID(ctx, managerID)
	if err != nil {
		return lookupErr(err, repository.ErrManagerNotFound, MsgManagerNotFound)
	}

	if manager.TodoID() != todo.ID {
		return apperr.InvalidRequest(MsgManagerNotOnTodo)
	}

	if err := s.managers.DeleteManager(ctx, manager); err != nil {
		return lookupErr(err, repository.ErrManagerNotFound, MsgManagerNotFound)
	}

	s.logger.InfoContext(ctx, "manager removed",
		"todo_id", todoID,
		"manager_id", managerID,
	)
	s.metrics.IncManagerRemoved()

	return nil
}
