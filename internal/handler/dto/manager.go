package dto

import "github.com/tasknest/tasknest/internal/model"

// ManagerSaveRequest is the body of POST /todos/{todoId}/managers.
type ManagerSaveRequest struct {
	ManagerUserID int64 `json:"managerUserId"`
}

// Validate checks required fields.
func (r ManagerSaveRequest) Validate() error {
	return positive(r.ManagerUserID, "managerUserId")
}

// ManagerResponse is a manager together with its user.
// The same shape answers both save and list.
type ManagerResponse struct {
	ID   int64         `json:"id"`
	User *UserResponse `json:"user"`
}

// ToManagerResponse converts a manager.
func ToManagerResponse(manager *model.Manager) ManagerResponse {
	return ManagerResponse{ID: manager.ID, User: ToUserResponse(manager.User)}
}

// ToManagerResponses converts a list of managers, never returning nil.
func ToManagerResponses(managers []*model.Manager) []ManagerResponse {
	out := make([]ManagerResponse, len(managers))
	for i, m := range managers {
		out[i] = ToManagerResponse(m)
	}
	return out
}
