// Package repository holds the SQL for every stored entity.
//
// Repositories run their statements on the connection the request
// acquired (see database.WithConn) and fall back to the shared pool
// outside a request, e.g. in background jobs.
package repository

import (
	"context"

	"github.com/deppfellow/blog-api/internal/database"
	"github.com/deppfellow/blog-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	BlogPosts *BlogPostRepository
}

// NewRepositories builds every repository on top of the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	var pool database.DBTX
	if s.DB != nil {
		pool = s.DB.Pool
	}

	return &Repositories{
		BlogPosts: NewBlogPostRepository(pool),
	}
}

// querier returns the request-scoped connection when present, else fallback.
func querier(ctx context.Context, fallback database.DBTX) database.DBTX {
	if conn, ok := database.ConnFromContext(ctx); ok {
		return conn
	}
	return fallback
}
