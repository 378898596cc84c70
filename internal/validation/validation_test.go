package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/deppfellow/blog-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slug string

func (s *slug) UnmarshalParam(param string) error {
	if param == "" || strings.ContainsAny(param, " /") {
		return &InvalidParamError{Message: "Invalid slug"}
	}
	*s = slug(param)
	return nil
}

type articleRequest struct {
	Slug   slug     `param:"slug" json:"-"`
	Name   string   `json:"name" validate:"required"`
	Labels []string `json:"labels" validate:"required,min=1,dive,required"`
}

var articleMessages = Messages{
	"name":       "Name cannot be empty",
	"labels":     "At least one label is required",
	"labels.min": "Labels cannot be an empty list",
	"labels[]":   "Labels cannot contain empty values",
}

func (r *articleRequest) Validate() error {
	return Struct(r, articleMessages)
}

func newContext(t *testing.T, method, body string, slugValue string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/articles/"+url.PathEscape(slugValue), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/articles/:slug")
	c.SetParamNames("slug")
	c.SetParamValues(slugValue)
	return c
}

func requireBadRequest(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func TestBindAndValidate_Valid(t *testing.T) {
	c := newContext(t, http.MethodPut, `{"name":"go","labels":["a","b"]}`, "intro")

	req := &articleRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, slug("intro"), req.Slug)
	assert.Equal(t, "go", req.Name)
	assert.Equal(t, []string{"a", "b"}, req.Labels)
}

func TestBindAndValidate_BodyCannotOverridePathParam(t *testing.T) {
	c := newContext(t, http.MethodPut, `{"slug":"other","name":"go","labels":["a"]}`, "intro")

	req := &articleRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, slug("intro"), req.Slug)
}

func TestBindAndValidate_InvalidParam(t *testing.T) {
	c := newContext(t, http.MethodPut, `{"name":"go","labels":["a"]}`, "has space")

	httpErr := requireBadRequest(t, BindAndValidate(c, &articleRequest{}))
	assert.Equal(t, "Invalid slug", httpErr.Message)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	for _, body := range []string{`{"name":`, `{"name": 5}`, `[1,2]`} {
		t.Run(body, func(t *testing.T) {
			c := newContext(t, http.MethodPut, body, "intro")

			httpErr := requireBadRequest(t, BindAndValidate(c, &articleRequest{}))
			assert.Equal(t, InvalidBodyMessage, httpErr.Message)
		})
	}
}

func TestBindAndValidate_Violations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty name", `{"name":"","labels":["a"]}`, "Name cannot be empty"},
		{"missing labels", `{"name":"go"}`, "At least one label is required"},
		{"empty labels", `{"name":"go","labels":[]}`, "Labels cannot be an empty list"},
		{"empty label value", `{"name":"go","labels":["a",""]}`, "Labels cannot contain empty values"},
		{"repeated empty values reported once", `{"name":"go","labels":["",""]}`, "Labels cannot contain empty values"},
		{"several fields in struct order", `{"labels":[""]}`, "Name cannot be empty; Labels cannot contain empty values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(t, http.MethodPut, tt.body, "intro")

			httpErr := requireBadRequest(t, BindAndValidate(c, &articleRequest{}))
			assert.Equal(t, tt.want, httpErr.Message)
			assert.NotEmpty(t, httpErr.Errors)
		})
	}
}

func TestStruct_UnknownRuleFallsBackToFieldName(t *testing.T) {
	type sample struct {
		Email string `json:"email" validate:"required,email"`
	}

	err := Struct(&sample{Email: "nope"}, Messages{})

	var custom CustomValidationErrors
	require.ErrorAs(t, err, &custom)
	require.Len(t, custom, 1)
	assert.Equal(t, "email", custom[0].Field)
	assert.Equal(t, "email is invalid", custom[0].Message)
}
