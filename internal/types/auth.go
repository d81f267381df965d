package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is shared across requests; validator.New caches struct
// metadata, so one instance serves the whole package.
var validate = validator.New()

// CreateUserRequest registers a new account. Analysis runs and saved
// reports are scoped to the account that created them.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest exchanges credentials for a bearer token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the API-facing account profile. It mirrors the db row minus the
// password hash, which must never leave the server.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse carries the profile and fresh token returned by both
// register and login.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdatePasswordRequest rotates a password; the current one must be
// presented alongside the replacement.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Validate reports the first tag violation, if any.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// Validate reports the first tag violation, if any.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate reports the first tag violation, if any.
func (r *UpdatePasswordRequest) Validate() error {
	return validate.Struct(r)
}
