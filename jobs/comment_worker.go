package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/contentmux/clients"
	"github.com/Luismorlan/contentmux/store"
	"github.com/Luismorlan/contentmux/utils"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const commentHandlerName = "comment_generation_handler"

// CommentPoster is the pair of external calls a comment job makes.
type CommentPoster interface {
	GenerateComment(ctx context.Context, req clients.GenerateCommentRequest) (*string, error)
	PostComment(ctx context.Context, req clients.PostCommentRequest) error
}

// CommentWorker consumes CommentJob messages. For each job it asks the AI
// endpoint for a comment on the content and posts whatever comes back.
type CommentWorker struct {
	Store            *store.Store
	Comments         CommentPoster
	StatusStore      utils.CommentJobStatusStore
	CanonicalBaseURL string
	Statsd           statsd.ClientInterface
}

// ContentURL is the canonical link of a content sent to the AI endpoint.
func (w *CommentWorker) ContentURL(uniqueID string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(w.CanonicalBaseURL, "/"), uniqueID)
}

// Handle is the watermill handler of TopicCommentJobs.
func (w *CommentWorker) Handle(msg *message.Message) error {
	job, err := DecodeCommentJob(msg)
	if err != nil {
		// Retrying a malformed payload never succeeds, drop it.
		Logger.Log.WithField("message_uuid", msg.UUID).WithError(err).Error("drop malformed comment job")
		return nil
	}
	return w.Process(msg.Context(), job)
}

// Process runs one comment job to completion.
func (w *CommentWorker) Process(ctx context.Context, job *CommentJob) error {
	logger := Logger.Log.WithFields(logrus.Fields{
		"job_id":     job.JobID,
		"content_id": job.ContentID,
	})

	content, err := w.Store.GetContentWithAuthor(ctx, job.ContentID)
	if err != nil {
		return errors.Wrapf(err, "load content %d", job.ContentID)
	}

	req := clients.GenerateCommentRequest{
		ContentID: content.Id,
		Title:     content.Title,
		Url:       w.ContentURL(content.UniqueID),
	}
	if content.Author != nil {
		req.AuthorName = content.Author.Name
	}
	comment, err := w.Comments.GenerateComment(ctx, req)
	if err != nil {
		return errors.Wrap(err, "generate comment")
	}
	if comment == nil {
		logger.Warn("AI endpoint returned no comment, posting null")
	}

	if err := w.Comments.PostComment(ctx, clients.PostCommentRequest{
		ContentID: content.Id,
		Comment:   comment,
	}); err != nil {
		return errors.Wrap(err, "post comment")
	}

	if w.StatusStore != nil {
		if err := w.StatusStore.SetStatus(ctx, job.ContentID, utils.CommentJobPosted); err != nil {
			logger.WithError(err).Warn("fail to record posted comment job")
		}
	}
	utils.IncrBestEffort(w.Statsd, utils.MetricCommentJobPosted)
	logger.Info("comment posted")
	return nil
}

// recordFailure is the innermost router middleware around retries. A job that
// still fails is marked failed and acked, gochannel would otherwise redeliver
// it forever.
func (w *CommentWorker) recordFailure(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		msgs, err := h(msg)
		if err == nil {
			return msgs, nil
		}

		entry := Logger.Log.WithField("message_uuid", msg.UUID).WithError(err)
		if job, decodeErr := DecodeCommentJob(msg); decodeErr == nil {
			entry = entry.WithFields(logrus.Fields{"job_id": job.JobID, "content_id": job.ContentID})
			if w.StatusStore != nil {
				if setErr := w.StatusStore.SetStatus(msg.Context(), job.ContentID, utils.CommentJobFailed); setErr != nil {
					entry.WithField("status_error", setErr.Error()).Warn("fail to record failed comment job")
				}
			}
		}
		entry.Error("comment job failed")
		utils.IncrBestEffort(w.Statsd, utils.MetricCommentJobFailed)
		return nil, nil
	}
}

// CommentRouterConfig controls the worker router.
type CommentRouterConfig struct {
	// Jobs started per minute, 0 disables throttling.
	JobsPerMinute int64
	// Window JobsPerMinute applies to, one minute when unset.
	ThrottleWindow time.Duration
	MaxRetries    int
	// Delay before the first retry, doubled on each following one.
	RetryInterval time.Duration
}

// NewCommentRouter wires worker onto subscriber. Middlewares run outermost
// first: throttle, failure recording, retry, panic recovery.
func NewCommentRouter(
	worker *CommentWorker,
	subscriber message.Subscriber,
	config CommentRouterConfig,
	logger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, err
	}

	if config.JobsPerMinute > 0 {
		window := config.ThrottleWindow
		if window <= 0 {
			window = time.Minute
		}
		router.AddMiddleware(middleware.NewThrottle(config.JobsPerMinute, window).Middleware)
	}
	router.AddMiddleware(worker.recordFailure)
	if config.MaxRetries > 0 {
		interval := config.RetryInterval
		if interval <= 0 {
			interval = time.Second
		}
		router.AddMiddleware(middleware.Retry{
			MaxRetries:      config.MaxRetries,
			InitialInterval: interval,
			Multiplier:      2,
			Logger:          logger,
		}.Middleware)
	}
	router.AddMiddleware(middleware.Recoverer)

	router.AddNoPublisherHandler(commentHandlerName, TopicCommentJobs, subscriber, worker.Handle)
	return router, nil
}
