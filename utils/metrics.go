package utils

import (
	"github.com/DataDog/datadog-go/statsd"
	Logger "github.com/Luismorlan/contentmux/utils/log"
)

const (
	MetricContentCreated      = "ingestion.content.created"
	MetricContentUpdated      = "ingestion.content.updated"
	MetricVideoUpserted       = "ingestion.video.upserted"
	MetricCommentJobEnqueued  = "comment_job.enqueued"
	MetricCommentJobPosted    = "comment_job.posted"
	MetricCommentJobFailed    = "comment_job.failed"
	MetricContentPullFinished = "content_pull.finished"
	MetricContentPullFailed   = "content_pull.failed"
)

// NewDogStatsdClient connects to the DogStatsD agent at addr. An empty addr,
// or an agent that cannot be reached, yields a client that drops every
// metric.
func NewDogStatsdClient(addr string) statsd.ClientInterface {
	if addr == "" {
		return &statsd.NoOpClient{}
	}
	client, err := statsd.New(addr, statsd.WithNamespace("contentmux."))
	if err != nil {
		Logger.Log.WithError(err).Warn("fail to create statsd client, metrics are disabled")
		return &statsd.NoOpClient{}
	}
	return client
}

// IncrBestEffort increments a counter and only logs on failure.
func IncrBestEffort(client statsd.ClientInterface, name string, tags ...string) {
	if client == nil {
		return
	}
	if err := client.Incr(name, tags, 1); err != nil {
		Logger.Log.WithError(err).Debugf("fail to report metric %s", name)
	}
}
