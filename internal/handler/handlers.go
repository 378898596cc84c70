// Package handler is the HTTP layer.
//
// Handlers bind and validate requests through the typed Handle pipeline,
// call the service layer and write responses. Errors are returned
// untouched for the global error handler to map.
package handler

import (
	"github.com/deppfellow/blog-api/internal/server"
	"github.com/deppfellow/blog-api/internal/service"
)

// Handlers groups every HTTP handler for router setup.
type Handlers struct {
	Root    *RootHandler
	Posts   *PostHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	h := NewHandler(s)

	return &Handlers{
		Root:    NewRootHandler(h),
		Posts:   NewPostHandler(h, services.Posts),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
