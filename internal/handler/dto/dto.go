// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"net/mail"
	"strings"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/model"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// ToUserResponse converts a user, which may be nil, to its public view.
func ToUserResponse(user *model.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{ID: user.ID, Email: user.Email}
}

func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.InvalidRequest(field + " must not be blank")
	}
	return nil
}

func validEmail(value string) error {
	if err := required(value, "email"); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return apperr.InvalidRequest("email is not a valid address")
	}
	return nil
}

func positive(value int64, field string) error {
	if value <= 0 {
		return apperr.InvalidRequest(field + " must be a positive id")
	}
	return nil
}
