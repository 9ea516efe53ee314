package ingestion

import (
	"context"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/contentmux/model"
	"github.com/Luismorlan/contentmux/store"
	"github.com/Luismorlan/contentmux/utils"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommentJobEnqueuer schedules the asynchronous comment generation of a
// newly created content.
type CommentJobEnqueuer interface {
	EnqueueCommentJob(ctx context.Context, contentID uint) error
}

// IngestedContent is one processed payload, in the shape the read API
// serializes.
type IngestedContent struct {
	Content *model.Content
	Author  *model.Author
}

// ContentService stores content payloads coming from the feed puller or from
// POST /api/contents/.
type ContentService struct {
	Store    *store.Store
	Enqueuer CommentJobEnqueuer
	Statsd   statsd.ClientInterface
}

func NewContentService(s *store.Store, enqueuer CommentJobEnqueuer, statsdClient statsd.ClientInterface) *ContentService {
	return &ContentService{
		Store:    s,
		Enqueuer: enqueuer,
		Statsd:   statsdClient,
	}
}

// IngestRaw decodes a JSON list of content payloads and ingests it.
func (s *ContentService) IngestRaw(ctx context.Context, body []byte) ([]IngestedContent, error) {
	payloads, err := DecodeContentPayloads(body)
	if err != nil {
		return nil, err
	}
	return s.IngestContents(ctx, payloads)
}

// IngestContents validates the whole batch, then upserts each payload in
// input order, each one in its own transaction. A comment job is enqueued
// for every content that did not exist before, after its transaction
// committed.
func (s *ContentService) IngestContents(ctx context.Context, payloads []ContentPayload) ([]IngestedContent, error) {
	if err := ValidateContentPayloads(payloads); err != nil {
		return nil, err
	}

	res := make([]IngestedContent, 0, len(payloads))
	for i := range payloads {
		ingested, created, err := s.ingestOne(ctx, &payloads[i])
		if err != nil {
			return nil, errors.Wrapf(err, "fail to ingest content %d (%s)", i, payloads[i].UnqExternalID)
		}
		res = append(res, *ingested)

		if !created {
			utils.IncrBestEffort(s.Statsd, utils.MetricContentUpdated)
			continue
		}
		utils.IncrBestEffort(s.Statsd, utils.MetricContentCreated)
		s.enqueueCommentJob(ctx, ingested.Content)
	}
	return res, nil
}

func (s *ContentService) ingestOne(ctx context.Context, p *ContentPayload) (*IngestedContent, bool, error) {
	publishedAt, err := p.PublishedAt()
	if err != nil {
		return nil, false, err
	}

	author := &model.Author{
		UniqueID:    p.Author.UniqueExternalID,
		Username:    p.Author.UniqueName,
		Name:        p.Author.FullName,
		Url:         p.Author.Url,
		Title:       p.Author.Title,
		BigMetadata: jsonOrNil(p.Author.BigMetadata),
		SecretValue: jsonOrNil(p.Author.SecretValue),
	}
	if p.Author.Followers != nil {
		author.Followers = *p.Author.Followers
	}

	var (
		content *model.Content
		created bool
	)
	err = s.Store.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.UpsertAuthor(ctx, author, p.Author.Followers != nil); err != nil {
			return err
		}

		content = &model.Content{
			UniqueID:     p.UnqExternalID,
			AuthorID:     author.Id,
			Title:        p.Title,
			ThumbnailUrl: p.ThumbnailViewUrl,
			PublishedAt:  &publishedAt,
			LikeCount:    *p.Stats.Likes,
			CommentCount: *p.Stats.Comments,
			ShareCount:   *p.Stats.Shares,
			ViewCount:    *p.Stats.Views,
			BigMetadata:  jsonOrNil(p.BigMetadata),
			SecretValue:  jsonOrNil(p.SecretValue),
		}
		var err error
		if created, err = tx.UpsertContent(ctx, content); err != nil {
			return err
		}

		for _, name := range p.Hashtags {
			tag, err := tx.GetOrCreateTag(ctx, name)
			if err != nil {
				return err
			}
			if err := tx.AttachTag(ctx, content.Id, tag.Id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	content.Author = author
	return &IngestedContent{Content: content, Author: author}, created, nil
}

// enqueueCommentJob never fails the ingestion, the content is already
// committed at this point.
func (s *ContentService) enqueueCommentJob(ctx context.Context, content *model.Content) {
	if s.Enqueuer == nil {
		return
	}
	if err := s.Enqueuer.EnqueueCommentJob(ctx, content.Id); err != nil {
		Logger.Log.WithFields(logrus.Fields{
			"content_id": content.Id,
			"unique_id":  content.UniqueID,
		}).WithError(err).Error("fail to enqueue comment job")
		return
	}
	utils.IncrBestEffort(s.Statsd, utils.MetricCommentJobEnqueued)
}
