package middleware

import (
	"net/http"

	"github.com/deppfellow/blog-api/internal/errs"
	"github.com/deppfellow/blog-api/internal/server"
	"github.com/deppfellow/blog-api/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// RouteNotFoundMessage answers unknown paths and methods.
const RouteNotFoundMessage = "Route not found"

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	// An empty list falls back to echo's default of "*".
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request, levelled by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// The error handler has not written the response yet, so the
			// recorded status is stale when the chain returned an error.
			statusCode := v.Status
			if v.Error != nil {
				statusCode = ToHTTPError(v.Error).Status
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// ToHTTPError maps any error onto the error taxonomy.
//
//   - *errs.HTTPError: unchanged
//   - echo 404/405: NotFound "Route not found"
//   - other echo 4xx: BadRequest with echo's message
//   - driver, pgx and context errors: Storage
//   - anything else: Internal
func ToHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		switch {
		case echoErr.Code == http.StatusNotFound, echoErr.Code == http.StatusMethodNotAllowed:
			notFound := errs.NewNotFoundError(RouteNotFoundMessage)
			notFound.Err = err
			return notFound
		case echoErr.Code >= 400 && echoErr.Code < 500:
			message, ok := echoErr.Message.(string)
			if !ok || message == "" {
				message = http.StatusText(echoErr.Code)
			}
			badRequest := errs.NewBadRequestError(message, nil)
			badRequest.Err = err
			return badRequest
		default:
			return errs.NewInternalServerError(err)
		}
	}

	if sqlerr.IsDriverError(err) {
		if errors.As(sqlerr.HandleError(err), &httpErr) {
			return httpErr
		}
	}

	return errs.NewInternalServerError(err)
}

// GlobalErrorHandler is echo's HTTPErrorHandler: the single place where
// errors become responses. The client gets {"error": message}; the log
// gets the cause and, for PostgreSQL errors, its classification.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := ToHTTPError(err)

	logger := GetLogger(c)

	var event *zerolog.Event
	if httpErr.Status >= 500 {
		event = logger.Error().Stack()
	} else {
		event = logger.Warn()
	}

	event = event.
		Err(err).
		Str("error_kind", string(httpErr.Kind)).
		Str("error_code", httpErr.Code).
		Int("status", httpErr.Status)

	if len(httpErr.Errors) > 0 {
		fields := zerolog.Dict()
		for _, fe := range httpErr.Errors {
			fields.Str(fe.Field, fe.Error)
		}
		event = event.Dict("field_errors", fields)
	}

	if sqlErr := sqlerr.Classify(err); sqlErr != nil {
		event = event.Object("sql", sqlErr)
	}

	event.Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.Status)
	} else {
		err = c.JSON(httpErr.Status, httpErr.Response())
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}
