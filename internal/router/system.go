package router

import (
	"github.com/deppfellow/blog-api/internal/handler"
	"github.com/deppfellow/blog-api/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers health, docs and static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.StaticFS("/static", static.FS)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
