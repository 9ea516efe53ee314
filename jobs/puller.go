package jobs

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/contentmux/ingestion"
	"github.com/Luismorlan/contentmux/utils"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type FeedFetcher interface {
	FetchContentFeed(ctx context.Context) ([]byte, error)
}

type ContentIngester interface {
	IngestRaw(ctx context.Context, body []byte) ([]ingestion.IngestedContent, error)
}

// ContentPuller fetches the external content feed and ingests it through the
// same path as POST /api/contents/.
type ContentPuller struct {
	Feed     FeedFetcher
	Ingester ContentIngester
	Statsd   statsd.ClientInterface
}

// PullOnce runs one pull and returns how many items were ingested.
func (p *ContentPuller) PullOnce(ctx context.Context) (int, error) {
	body, err := p.Feed.FetchContentFeed(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "fetch content feed")
	}
	ingested, err := p.Ingester.IngestRaw(ctx, body)
	if err != nil {
		return 0, errors.Wrap(err, "ingest content feed")
	}
	return len(ingested), nil
}

// Run is the cron entry point, errors are logged and the next tick retries.
func (p *ContentPuller) Run(ctx context.Context) {
	start := time.Now()
	n, err := p.PullOnce(ctx)
	if err != nil {
		Logger.Log.WithError(err).Error("content pull failed")
		utils.IncrBestEffort(p.Statsd, utils.MetricContentPullFailed)
		return
	}
	Logger.Log.WithFields(logrus.Fields{
		"ingested": n,
		"took":     time.Since(start).String(),
	}).Info("content pull finished")
	utils.IncrBestEffort(p.Statsd, utils.MetricContentPullFinished)
}
