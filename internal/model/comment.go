package model

import "time"

// Comment is a note left on a todo.
type Comment struct {
	ID         int64
	Contents   string
	User       *User
	Todo       *Todo
	CreatedAt  time.Time
	ModifiedAt time.Time
}
