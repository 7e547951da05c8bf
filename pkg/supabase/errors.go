package supabase

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an operation needs an authenticated session
// and none is held.
var ErrNoSession = errors.New("no active session")

// CodeRowNotFound is the PostgREST error code for a single-object request
// that matched no rows.
const CodeRowNotFound = "PGRST116"

// ServiceError is a normalized error from the remote auth/database service.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (%s)", e.Message, e.Code)
	}

	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is the service's "row not found" error.
func IsNotFound(err error) bool {
	var se *ServiceError

	return errors.As(err, &se) && se.Code == CodeRowNotFound
}

// restError is the PostgREST error body.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e restError) toServiceError(status int) *ServiceError {
	message := e.Message
	if message == "" {
		message = "request failed"
	}

	return &ServiceError{Status: status, Code: e.Code, Message: message}
}

// authErrorBody covers the error shapes the auth endpoints return.
type authErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	ErrorCode        string `json:"error_code"`
}

func (e authErrorBody) toServiceError(status int) *ServiceError {
	message := e.ErrorDescription
	if message == "" {
		message = e.Msg
	}

	if message == "" {
		message = e.Error
	}

	if message == "" {
		message = "authentication request failed"
	}

	code := e.ErrorCode
	if code == "" {
		code = e.Error
	}

	return &ServiceError{Status: status, Code: code, Message: message}
}
