package middleware

import (
	"github.com/deppfellow/blog-api/internal/database"
	"github.com/deppfellow/blog-api/internal/errs"
	"github.com/labstack/echo/v4"
)

// DatabaseMiddleware scopes one pooled connection to a request.
type DatabaseMiddleware struct {
	acquirer database.Acquirer
}

// NewDatabaseMiddleware builds the middleware. A nil acquirer makes
// AcquireConnection a pass-through and repositories use the pool directly.
func NewDatabaseMiddleware(acquirer database.Acquirer) *DatabaseMiddleware {
	return &DatabaseMiddleware{acquirer: acquirer}
}

// AcquireConnection checks a connection out before the handler runs and
// returns it to the pool on every exit path, panics included.
// When the pool is exhausted the request waits until one is released or
// the client goes away.
func (d *DatabaseMiddleware) AcquireConnection() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if d.acquirer == nil {
			return next
		}

		return func(c echo.Context) error {
			ctx := c.Request().Context()

			conn, err := d.acquirer.AcquireConn(ctx)
			if err != nil {
				return errs.NewStorageError(err)
			}
			defer conn.Release()

			c.SetRequest(c.Request().WithContext(database.WithConn(ctx, conn)))

			return next(c)
		}
	}
}
