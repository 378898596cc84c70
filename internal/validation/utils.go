// Package validation binds request data and validates it.
//
// Struct tags drive the rules (go-playground/validator); each request
// type supplies the client-facing message for every field/tag pair so
// violations read as plain sentences rather than validator jargon.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/deppfellow/blog-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// InvalidBodyMessage is returned for any body that cannot be decoded.
const InvalidBodyMessage = "Invalid request body"

// Validatable is implemented by every request type.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single field violation with its final message.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a list of violations in struct order.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	messages := make([]string, 0, len(c))
	for _, e := range c {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

// InvalidParamError is returned by path and query unmarshalers.
// Its Message is written to the client as is.
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("tags[0]") instead of Go names ("Tags[0]").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "query", "param"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				continue
			}
			if name != "" {
				return name
			}
		}
		return strings.ToLower(fld.Name)
	})

	return v
}

// Messages maps a field to the message used for any rule it breaks.
// A key of "field.tag" overrides the field-wide message for one rule.
// Slice elements are looked up under "field[]".
type Messages map[string]string

func (m Messages) lookup(field, tag string) (string, bool) {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i] + "[]"
	}
	if msg, ok := m[field+"."+tag]; ok {
		return msg, true
	}
	msg, ok := m[field]
	return msg, ok
}

// Struct validates v against its tags and translates each violation
// through messages. Repeated messages (several empty tags) appear once.
func Struct(v any, messages Messages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	seen := make(map[string]bool, len(validationErrors))
	var out CustomValidationErrors
	for _, fe := range validationErrors {
		field := fe.Field()
		msg, ok := messages.lookup(field, fe.Tag())
		if !ok {
			msg = field + " is invalid"
		}
		if seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, CustomValidationError{Field: field, Message: msg})
	}

	return out
}

// BindAndValidate binds path, query and body data into payload and
// validates it. Every failure is a *errs.HTTPError with status 400.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		var paramErr *InvalidParamError
		if errors.As(err, &paramErr) {
			return errs.NewBadRequestError(paramErr.Message, nil)
		}
		badRequest := errs.NewBadRequestError(InvalidBodyMessage, nil)
		badRequest.Err = err
		return badRequest
	}

	if err := payload.Validate(); err != nil {
		return toHTTPError(err)
	}

	return nil
}

func toHTTPError(err error) error {
	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		fieldErrors := make([]errs.FieldError, 0, len(custom))
		for _, ce := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: ce.Field, Error: ce.Message})
		}
		return errs.ValidationError(fieldErrors)
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	return errs.NewInternalServerError(err)
}
