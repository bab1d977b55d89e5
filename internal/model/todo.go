package model

import "time"

// Todo is a task owned by the user who created it.
// Weather is captured once at creation and never refreshed.
type Todo struct {
	ID         int64
	Title      string
	Contents   string
	Weather    string
	Owner      *User // nil when the creator no longer resolves
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// OwnerID returns the owner's id and whether an owner is set.
func (t *Todo) OwnerID() (int64, bool) {
	if t.Owner == nil {
		return 0, false
	}
	return t.Owner.ID, true
}

// IsOwnedBy reports whether userID is the todo's owner.
// A todo without an owner is owned by nobody.
func (t *Todo) IsOwnedBy(userID int64) bool {
	id, ok := t.OwnerID()
	return ok && id == userID
}
