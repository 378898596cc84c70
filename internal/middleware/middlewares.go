package middleware

import (
	"github.com/deppfellow/blog-api/internal/database"
	"github.com/deppfellow/blog-api/internal/server"
)

// Middlewares groups every middleware component built from the server.
type Middlewares struct {
	Global          *GlobalMiddlewares
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	Database        *DatabaseMiddleware
}

func NewMiddlewares(s *server.Server) *Middlewares {
	// Keep a missing pool as a nil interface, not a typed nil.
	var acquirer database.Acquirer
	if s.DB != nil {
		acquirer = s.DB
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		Database:        NewDatabaseMiddleware(acquirer),
	}
}
