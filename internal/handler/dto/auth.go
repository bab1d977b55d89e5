package dto

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserRole string `json:"userRole"`
}

// Validate checks the fields the service does not.
func (r SignupRequest) Validate() error {
	if err := validEmail(r.Email); err != nil {
		return err
	}
	if err := required(r.Password, "password"); err != nil {
		return err
	}
	return required(r.UserRole, "userRole")
}

// SigninRequest is the body of POST /auth/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (r SigninRequest) Validate() error {
	if err := validEmail(r.Email); err != nil {
		return err
	}
	return required(r.Password, "password")
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	BearerToken string `json:"bearerToken"`
}
