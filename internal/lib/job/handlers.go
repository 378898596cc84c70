package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/blog-api/internal/config"
	"github.com/deppfellow/blog-api/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer sends the notification emails job handlers produce.
type Mailer interface {
	SendPostPublishedEmail(ctx context.Context, to string, postID int64, title string) error
}

// InitHandlers wires the handler dependencies from config.
// Without a Resend key or a recipient, notifications are only logged.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.notifyEmail = cfg.Integration.NotifyEmail
	if cfg.Integration.ResendAPIKey != "" {
		j.mailer = email.NewClient(cfg, logger)
	}
}

func (j *JobService) handlePostPublishedTask(ctx context.Context, t *asynq.Task) error {
	var p PostPublishedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal post published payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskPostPublished).
		Int64("post_id", p.PostID).
		Logger()

	if j.mailer == nil || j.notifyEmail == "" {
		log.Info().Msg("post published, email notifications disabled")
		return nil
	}

	log.Info().Str("to", j.notifyEmail).Msg("processing post published task")

	if err := j.mailer.SendPostPublishedEmail(ctx, j.notifyEmail, p.PostID, p.Title); err != nil {
		log.Error().Err(err).Msg("failed to send post published email")
		return err
	}

	log.Info().Msg("successfully sent post published email")
	return nil
}
