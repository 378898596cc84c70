package service

import (
	"context"
	"time"

	"github.com/deppfellow/blog-api/internal/errs"
	"github.com/deppfellow/blog-api/internal/model"
	"github.com/rs/zerolog"
)

const (
	MsgPostNotFound   = "Blog post not found"
	MsgNoPostsMatched = "No blog posts found"
)

// NotifyTimeout bounds the enqueue on Create. The request still holds its
// pooled connection while it waits.
const NotifyTimeout = 2 * time.Second

type PostService struct {
	store         PostStore
	notifier      Notifier
	logger        *zerolog.Logger
	notifyTimeout time.Duration
}

// NewPostService builds the service. notifier may be nil.
func NewPostService(store PostStore, notifier Notifier, logger *zerolog.Logger) *PostService {
	return &PostService{
		store:         store,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: NotifyTimeout,
	}
}

func (s *PostService) Create(ctx context.Context, input model.BlogPostInput) (model.BlogPost, error) {
	post, err := s.store.Insert(ctx, input)
	if err != nil {
		return model.BlogPost{}, err
	}

	if s.notifier != nil {
		s.notify(ctx, post)
	}

	return post, nil
}

// notify enqueues the post-published task. The post is already stored, so
// a failure is logged and never returned.
func (s *PostService) notify(ctx context.Context, post model.BlogPost) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.EnqueuePostPublished(ctx, post.ID, post.Title); err != nil {
		s.log(ctx).Error().Err(err).Int64("post_id", post.ID).Msg("failed to enqueue post published notification")
	}
}

// log prefers the request-scoped logger stored in ctx.
func (s *PostService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

func (s *PostService) List(ctx context.Context) ([]model.BlogPost, error) {
	return s.store.ListAll(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (model.BlogPost, error) {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.BlogPost{}, err
	}
	if post == nil {
		return model.BlogPost{}, errs.NewNotFoundError(MsgPostNotFound)
	}
	return *post, nil
}

func (s *PostService) Update(ctx context.Context, id int64, input model.BlogPostInput) (model.BlogPost, error) {
	post, err := s.store.UpdateByID(ctx, id, input)
	if err != nil {
		return model.BlogPost{}, err
	}
	if post == nil {
		return model.BlogPost{}, errs.NewNotFoundError(MsgPostNotFound)
	}
	return *post, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	n, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NewNotFoundError(MsgPostNotFound)
	}
	return nil
}

// Search reports NotFound when nothing matches rather than an empty list.
func (s *PostService) Search(ctx context.Context, term string) ([]model.BlogPost, error) {
	posts, err := s.store.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, errs.NewNotFoundError(MsgNoPostsMatched)
	}
	return posts, nil
}
