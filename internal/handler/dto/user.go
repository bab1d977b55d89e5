package dto

// ChangePasswordRequest is the body of PUT /users.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Validate checks required fields. Password policy is enforced by the service.
func (r ChangePasswordRequest) Validate() error {
	if err := required(r.OldPassword, "oldPassword"); err != nil {
		return err
	}
	return required(r.NewPassword, "newPassword")
}

// UserRoleChangeRequest is the body of PATCH /admin/users/{userId}.
type UserRoleChangeRequest struct {
	Role string `json:"role"`
}

// Validate checks required fields.
func (r UserRoleChangeRequest) Validate() error {
	return required(r.Role, "role")
}
