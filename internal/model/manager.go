package model

// Manager assigns an additional user to a todo.
type Manager struct {
	ID   int64
	User *User
	Todo *Todo
}

// TodoID returns the id of the managed todo, or 0 if unset.
func (m *Manager) TodoID() int64 {
	if m.Todo == nil {
		return 0
	}
	return m.Todo.ID
}
