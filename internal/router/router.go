// Package router builds the echo instance: global middleware, the error
// handler and every route.
package router

import (
	"net/http"

	"github.com/deppfellow/blog-api/internal/handler"
	"github.com/deppfellow/blog-api/internal/middleware"
	"github.com/deppfellow/blog-api/internal/server"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// bodyLimit caps request bodies; larger bodies are rejected with 400.
const bodyLimit = "1M"

func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	// Order matters: the request id and transaction must exist before the
	// request logger is built, which must exist before anything logs.
	router.Use(
		echoMiddleware.BodyLimit(bodyLimit),
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	router.GET("/", h.Root.Hello)

	registerPostRoutes(router, h, m)

	return router
}

// registerPostRoutes mounts the blog post API. Every route in the group
// holds one pooled connection for the duration of the request.
// /posts/search is a static segment, so it wins over /posts/:id.
// Without the /:id/* entry a trailing :id captures the rest of the path
// and /posts/1/comments would reach the post handlers.
func registerPostRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	posts := r.Group("/posts", m.Database.AcquireConnection())

	posts.POST("", handler.Handle(h.Posts.Handler, h.Posts.CreatePost, http.StatusCreated))
	posts.GET("", handler.Handle(h.Posts.Handler, h.Posts.ListPosts, http.StatusOK))
	posts.GET("/search", handler.Handle(h.Posts.Handler, h.Posts.SearchPosts, http.StatusOK))
	posts.GET("/:id", handler.Handle(h.Posts.Handler, h.Posts.GetPost, http.StatusOK))
	posts.PUT("/:id", handler.Handle(h.Posts.Handler, h.Posts.UpdatePost, http.StatusOK))
	posts.DELETE("/:id", handler.HandleNoContent(h.Posts.Handler, h.Posts.DeletePost, http.StatusNoContent))
	posts.RouteNotFound("/:id/*", echo.NotFoundHandler)
}
