// Package errs defines the application's error taxonomy.
//
// Every failure that reaches the HTTP layer is an *HTTPError of one of four
// kinds. The kind decides the status code and the message shown to the
// client; the wrapped cause is kept for server-side logging only.
//
//	Kind        Status  Client message
//	storage     500     "A database error occurred."
//	not_found   404     caller supplied
//	bad_request 400     caller supplied
//	internal    500     "An internal server error occurred."
package errs

import "strings"

// Kind classifies an HTTPError.
type Kind string

const (
	KindStorage    Kind = "storage"
	KindNotFound   Kind = "not_found"
	KindBadRequest Kind = "bad_request"
	KindInternal   Kind = "internal"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "title", "error": "Title cannot be empty" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError is the error type handlers, services and repositories return.
//
// Fields:
//   - Kind: taxonomy entry, decides Status and the public message.
//   - Code: machine-friendly code used in logs (e.g. "NOT_FOUND").
//   - Message: the message written to the client.
//   - Status: HTTP status code.
//   - Errors: per-field validation failures, logged alongside the message.
//   - Err: underlying cause, never shown to the client.
type HTTPError struct {
	Kind    Kind
	Code    string
	Message string
	Status  int
	Errors  []FieldError
	Err     error
}

// Error returns the client message, followed by the cause when one exists.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Response returns the JSON body for this error.
func (e *HTTPError) Response() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
