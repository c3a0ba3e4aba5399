package api

import (
	"fmt"

	"quill/internal/errkind"
)

// AuthorizationError reports a 401/403 response. Fatal to the operation;
// retrying without different credentials cannot succeed.
type AuthorizationError struct {
	Operation string
	Status    int
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: not authorized (status %d)", e.Operation, e.Status)
}

func (e *AuthorizationError) ErrorKind() string { return errkind.KindAuthorization }

// NotFoundError reports a 404 response for a post or category resource.
type NotFoundError struct {
	Operation string
	PostID    int64
}

func (e *NotFoundError) Error() string {
	if e.PostID > 0 {
		return fmt.Sprintf("%s: post %d not found", e.Operation, e.PostID)
	}
	return fmt.Sprintf("%s: not found", e.Operation)
}

func (e *NotFoundError) ErrorKind() string { return errkind.KindNotFound }

// TransientError reports a network failure or 5xx response. Session state is
// preserved; the caller may retry as-is.
type TransientError struct {
	Operation string
	Status    int
	Err       error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: server returned %d", e.Operation, e.Status)
}

func (e *TransientError) Unwrap() error { return e.Err }

func (e *TransientError) ErrorKind() string { return errkind.KindTransient }
