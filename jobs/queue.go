package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Luismorlan/contentmux/utils"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// Topic consumed by the comment generation worker.
	TopicCommentJobs = "comment_generation"
)

// CommentJob asks the worker to generate and post a comment for a content.
type CommentJob struct {
	JobID      string    `json:"job_id"`
	ContentID  uint      `json:"content_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewEventBus creates the in-process event bus shared by the queue and the
// worker router. Publishing never blocks, messages wait in the subscriber
// buffer until the worker picks them up.
func NewEventBus(buffer int64, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            buffer,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)
}

// Queue publishes comment jobs onto the event bus. It implements
// ingestion.CommentJobEnqueuer.
type Queue struct {
	Publisher   message.Publisher
	StatusStore utils.CommentJobStatusStore
}

func NewQueue(publisher message.Publisher, statusStore utils.CommentJobStatusStore) *Queue {
	return &Queue{Publisher: publisher, StatusStore: statusStore}
}

// EnqueueCommentJob publishes a CommentJob for contentID, at most once per
// content.
func (q *Queue) EnqueueCommentJob(ctx context.Context, contentID uint) error {
	ok, err := q.StatusStore.MarkPending(ctx, contentID)
	if err != nil {
		return errors.Wrapf(err, "mark comment job of content %d pending", contentID)
	}
	if !ok {
		Logger.Log.WithField("content_id", contentID).Debug("comment job already enqueued, skip")
		return nil
	}

	job := CommentJob{
		JobID:      uuid.NewString(),
		ContentID:  contentID,
		EnqueuedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	msg := message.NewMessage(job.JobID, data)
	if err := q.Publisher.Publish(TopicCommentJobs, msg); err != nil {
		// The key stays, a failed job is not enqueued again.
		if statusErr := q.StatusStore.SetStatus(ctx, contentID, utils.CommentJobFailed); statusErr != nil {
			Logger.Log.WithField("content_id", contentID).WithError(statusErr).Error("fail to mark comment job failed")
		}
		return errors.Wrapf(err, "publish comment job of content %d", contentID)
	}
	return nil
}

// DecodeCommentJob parses the payload of a comment job message.
func DecodeCommentJob(msg *message.Message) (*CommentJob, error) {
	var job CommentJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
