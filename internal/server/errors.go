package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Account errors carry their own HTTP status so handlers can pass them to
// http.Error without a mapping table. Anything that doesn't know its status
// is a server fault and answers 500.

type statusCoder interface {
	httpStatus() int
}

// HTTPStatus resolves the response code for a user-service error.
func HTTPStatus(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.httpStatus()
	}
	return http.StatusInternalServerError
}

// ErrEmailAlreadyExists rejects registration with an address already on file.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

func (e *ErrEmailAlreadyExists) httpStatus() int { return http.StatusConflict }

// ErrInvalidCredentials covers both a missing account and a wrong password;
// login failures never reveal which.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

func (e *ErrInvalidCredentials) httpStatus() int { return http.StatusUnauthorized }

// ErrUserNotFound reports a token whose account no longer exists.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

func (e *ErrUserNotFound) httpStatus() int { return http.StatusNotFound }

// ErrPasswordMismatch rejects a rotation whose current password is wrong.
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

func (e *ErrPasswordMismatch) httpStatus() int { return http.StatusUnauthorized }
