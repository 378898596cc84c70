package service

import (
	"github.com/deppfellow/blog-api/internal/lib/job"
	"github.com/deppfellow/blog-api/internal/repository"
	"github.com/deppfellow/blog-api/internal/server"
)

type Services struct {
	Posts *PostService
	Job   *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// A nil *job.JobService must not become a non-nil Notifier.
	var notifier Notifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Posts: NewPostService(repos.BlogPosts, notifier, s.Logger),
		Job:   s.Job,
	}, nil
}
