// Package service contains the business rules of each operation.
//
// It sits between handlers and repositories: it turns "nothing found"
// results into not-found errors and triggers side effects such as
// background notifications.
package service

import (
	"context"

	"github.com/deppfellow/blog-api/internal/model"
)

// PostStore is the persistence the post service needs.
type PostStore interface {
	Insert(ctx context.Context, input model.BlogPostInput) (model.BlogPost, error)
	ListAll(ctx context.Context) ([]model.BlogPost, error)
	FindByID(ctx context.Context, id int64) (*model.BlogPost, error)
	UpdateByID(ctx context.Context, id int64, input model.BlogPostInput) (*model.BlogPost, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	Search(ctx context.Context, term string) ([]model.BlogPost, error)
}

// Notifier is told about newly created posts.
type Notifier interface {
	EnqueuePostPublished(ctx context.Context, postID int64, title string) error
}
