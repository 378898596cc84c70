package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		err     *HTTPError
		kind    Kind
		status  int
		message string
	}{
		{"storage", NewStorageError(cause), KindStorage, http.StatusInternalServerError, "A database error occurred."},
		{"not found", NewNotFoundError("Blog post not found"), KindNotFound, http.StatusNotFound, "Blog post not found"},
		{"bad request", NewBadRequestError("Title cannot be empty", nil), KindBadRequest, http.StatusBadRequest, "Title cannot be empty"},
		{"internal", NewInternalServerError(nil), KindInternal, http.StatusInternalServerError, "An internal server error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.Equal(t, ErrorResponse{Error: tt.message}, tt.err.Response())
		})
	}
}

func TestStorageErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("insert blog post: %w", NewStorageError(cause))

	assert.ErrorIs(t, err, cause)

	var httpErr *HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, KindStorage, httpErr.Kind)
	assert.Equal(t, "A database error occurred.", httpErr.Message)
	assert.Contains(t, httpErr.Error(), "connection refused")
}

func TestValidationErrorJoinsMessages(t *testing.T) {
	err := ValidationError([]FieldError{
		{Field: "title", Error: "Title cannot be empty"},
		{Field: "tags", Error: "At least one tag is required"},
	})

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Title cannot be empty; At least one tag is required", err.Message)
	assert.Len(t, err.Errors, 2)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
}
