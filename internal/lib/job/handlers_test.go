package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to     string
	postID int64
	title  string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendPostPublishedEmail(_ context.Context, to string, postID int64, title string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, postID: postID, title: title})
	return nil
}

func newTestService(mailer Mailer, notifyEmail string) *JobService {
	logger := zerolog.Nop()
	return &JobService{logger: &logger, mailer: mailer, notifyEmail: notifyEmail}
}

func TestNewPostPublishedTask(t *testing.T) {
	task, err := NewPostPublishedTask(42, "Hello")
	require.NoError(t, err)

	assert.Equal(t, TaskPostPublished, task.Type())
	assert.JSONEq(t, `{"post_id":42,"title":"Hello"}`, string(task.Payload()))
}

func TestHandlePostPublishedTask_SendsEmail(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestService(mailer, "editor@example.com")

	task, err := NewPostPublishedTask(42, "Hello")
	require.NoError(t, err)

	require.NoError(t, j.handlePostPublishedTask(context.Background(), task))
	assert.Equal(t, []sentEmail{{to: "editor@example.com", postID: 42, title: "Hello"}}, mailer.sent)
}

func TestHandlePostPublishedTask_Disabled(t *testing.T) {
	task, err := NewPostPublishedTask(1, "Hello")
	require.NoError(t, err)

	assert.NoError(t, newTestService(nil, "editor@example.com").handlePostPublishedTask(context.Background(), task))

	mailer := &fakeMailer{}
	assert.NoError(t, newTestService(mailer, "").handlePostPublishedTask(context.Background(), task))
	assert.Empty(t, mailer.sent)
}

func TestHandlePostPublishedTask_SendFailureIsRetried(t *testing.T) {
	sendErr := errors.New("provider unavailable")
	j := newTestService(&fakeMailer{err: sendErr}, "editor@example.com")

	task, err := NewPostPublishedTask(1, "Hello")
	require.NoError(t, err)

	err = j.handlePostPublishedTask(context.Background(), task)
	assert.ErrorIs(t, err, sendErr)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandlePostPublishedTask_MalformedPayloadSkipsRetry(t *testing.T) {
	j := newTestService(&fakeMailer{}, "editor@example.com")

	err := j.handlePostPublishedTask(context.Background(), asynq.NewTask(TaskPostPublished, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestMuxRoutesPostPublished(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestService(mailer, "editor@example.com")

	task, err := NewPostPublishedTask(9, "Routed")
	require.NoError(t, err)

	require.NoError(t, j.mux().ProcessTask(context.Background(), task))
	assert.Len(t, mailer.sent, 1)
}
