package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostPublished is enqueued after a blog post is created.
	TaskPostPublished = "post:published"
)

// PostPublishedPayload is the JSON payload of TaskPostPublished.
type PostPublishedPayload struct {
	PostID int64  `json:"post_id"`
	Title  string `json:"title"`
}

// NewPostPublishedTask builds the notification task for a created post.
func NewPostPublishedTask(postID int64, title string) (*asynq.Task, error) {
	payload, err := json.Marshal(PostPublishedPayload{
		PostID: postID,
		Title:  title,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPostPublished,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
