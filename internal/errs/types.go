package errs

import (
	"net/http"
	"strings"
)

const (
	// StorageMessage is shown for every data layer failure.
	StorageMessage = "A database error occurred."

	// InternalMessage is shown for failures that fit no other kind.
	InternalMessage = "An internal server error occurred."
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewStorageError wraps a data layer failure.
// The cause is logged; the client only sees StorageMessage.
func NewStorageError(cause error) *HTTPError {
	return &HTTPError{
		Kind:    KindStorage,
		Code:    "DATABASE_ERROR",
		Message: StorageMessage,
		Status:  http.StatusInternalServerError,
		Err:     cause,
	}
}

// NewNotFoundError creates a 404 with the given message.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Kind:    KindNotFound,
		Code:    statusCode(http.StatusNotFound),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewBadRequestError creates a 400 with the given message and optional
// per-field violations.
func NewBadRequestError(message string, fieldErrors []FieldError) *HTTPError {
	return &HTTPError{
		Kind:    KindBadRequest,
		Code:    statusCode(http.StatusBadRequest),
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  fieldErrors,
	}
}

// NewInternalServerError creates the catch-all 500. cause may be nil.
func NewInternalServerError(cause error) *HTTPError {
	return &HTTPError{
		Kind:    KindInternal,
		Code:    statusCode(http.StatusInternalServerError),
		Message: InternalMessage,
		Status:  http.StatusInternalServerError,
		Err:     cause,
	}
}

// ValidationError builds a 400 whose message joins every field message.
func ValidationError(fieldErrors []FieldError) *HTTPError {
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Error)
	}
	return NewBadRequestError(strings.Join(messages, "; "), fieldErrors)
}
