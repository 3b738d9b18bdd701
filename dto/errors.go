package dto

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by a facade that was never set up.
	ErrNotInitialized = errors.New("walacor service is not initialized, call Setup first")
	// ErrMissingUID is the local precondition failure of update calls.
	ErrMissingUID = errors.New("UID is required to update a record")
)

// APIConnectionError covers network failures and unexpected HTTP statuses.
type APIConnectionError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *APIConnectionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("Walacor API is unreachable: %v", e.Err)
	}
	return "Walacor API is unreachable"
}

func (e *APIConnectionError) Unwrap() error { return e.Err }

// AuthenticationError is raised by a failed login or a repeated 401.
type AuthenticationError struct {
	StatusCode int
	Reason     string
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 && e.Reason != "" {
		return fmt.Sprintf("authentication failed with status code %d: %s", e.StatusCode, e.Reason)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed with status code %d", e.StatusCode)
	}
	return "authentication failed: " + e.Reason
}

// PlatformError is one entry of the "errors" array of a rejected request.
type PlatformError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// BadRequestError is a 400 carrying the first platform error entry.
type BadRequestError struct {
	Reason  string
	Message string
	Code    int
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request (%d) %s: %s", e.Code, e.Reason, e.Message)
}

// InternalServerError is a 500 from the platform.
type InternalServerError struct {
	Reason  string
	Message string
	Code    int
}

func (e *InternalServerError) Error() string {
	return fmt.Sprintf("internal server error (%d) %s: %s", e.Code, e.Reason, e.Message)
}

// FileRequestError wraps every failure of the file operations.
type FileRequestError struct {
	Op  string
	Err error
}

func (e *FileRequestError) Error() string {
	if e.Err == nil {
		return "file " + e.Op + " failed"
	}
	return fmt.Sprintf("file %s failed: %v", e.Op, e.Err)
}

func (e *FileRequestError) Unwrap() error { return e.Err }
