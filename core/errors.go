package core

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid identifier or password") // 401 Unauthorized
	ErrNotAuthenticated   = errors.New("not authenticated")              // 401
	ErrMissingToken       = errors.New("response carried no token")      // sign-in/sign-up step
	ErrMalformedResponse  = errors.New("unexpected response shape")
	ErrUnknownRole        = errors.New("unknown role")
)

// Flow guards
var (
	ErrRequestInFlight = errors.New("operation already in progress")
)

// Flow errors
var (
	ErrAlreadyRegistered = errors.New("email or username already taken") // 409 Conflict
	ErrRoleAssignment    = errors.New("account created but role assignment failed, retry sign-up")
)

// Validation errors (client input, checked before any network call)
var (
	ErrEmailRequired    = errors.New("email is required")           // 400
	ErrInvalidEmail     = errors.New("invalid email format")        // 400
	ErrUsernameRequired = errors.New("username is required")        // 400
	ErrUsernameTooShort = errors.New("username is too short")       // 400
	ErrDocumentRequired = errors.New("document number is required") // 400
	ErrInvalidCPF       = errors.New("invalid CPF format")          // 400
	ErrInvalidCNPJ      = errors.New("invalid CNPJ format")         // 400
	ErrPasswordRequired = errors.New("password is required")        // 400
	ErrPasswordTooShort = errors.New("password is too short")       // 400
	ErrPasswordMismatch = errors.New("passwords do not match")      // 400
)

// Resource errors
var (
	ErrNotFound  = errors.New("resource not found") // 404
	ErrCacheMiss = errors.New("list not cached")
)

// Config errors (client-side configuration)
var (
	ErrRepositoryRequired  = errors.New("session repository is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")       // 500
	ErrBaseURLRequired     = errors.New("api base url is required")       // 500
)

// APIError carries a non-2xx backend response to the caller unchanged:
// the original status code plus the backend's message when it supplied
// one, or a per-operation fallback otherwise.
type APIError struct {
	Status  int    `json:"status"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// Unwrap lets errors.Is see through to sentinel classifications.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrNotAuthenticated
	case 404:
		return ErrNotFound
	case 409:
		return ErrAlreadyRegistered
	}
	return nil
}

// AuthFailure reports whether the response status forces a logout.
func (e *APIError) AuthFailure() bool {
	return e.Status == 401 || e.Status == 403
}
