package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/blog-api/internal/server"
	"github.com/deppfellow/blog-api/static"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API reference UI.
// The page loads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := fs.ReadFile(static.FS, "openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.HTMLBlob(http.StatusOK, page)
}
