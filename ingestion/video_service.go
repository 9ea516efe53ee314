package ingestion

import (
	"context"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/contentmux/model"
	"github.com/Luismorlan/contentmux/store"
	"github.com/Luismorlan/contentmux/utils"
	"github.com/pkg/errors"
)

// VideoService stores scraped videos and their publishers.
type VideoService struct {
	Store  *store.Store
	Statsd statsd.ClientInterface
}

func NewVideoService(s *store.Store, statsdClient statsd.ClientInterface) *VideoService {
	return &VideoService{Store: s, Statsd: statsdClient}
}

// IngestPublishers validates the batch and overwrites every counter of each
// publisher. It returns the validated payloads.
func (s *VideoService) IngestPublishers(ctx context.Context, payloads []VideoPublisherPayload) ([]VideoPublisherPayload, error) {
	if err := ValidateVideoPublisherPayloads(payloads); err != nil {
		return nil, err
	}

	for i, p := range payloads {
		err := s.Store.UpsertVideoPublisher(ctx, &model.VideoPublisher{
			UserName:  p.UserName,
			Following: p.Following,
			Followers: p.Followers,
			Likes:     p.Likes,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "fail to ingest video publisher %d", i)
		}
	}
	return payloads, nil
}

// IngestVideos validates the batch and upserts each video by url. A named
// publisher is created with zero counters when missing, an existing one is
// left untouched.
func (s *VideoService) IngestVideos(ctx context.Context, payloads []VideoDataPayload) ([]VideoDataPayload, error) {
	if err := ValidateVideoDataPayloads(payloads); err != nil {
		return nil, err
	}

	for i := range payloads {
		p := payloads[i]
		err := s.Store.InTx(ctx, func(tx *store.Store) error {
			video := &model.VideoData{
				VideoUrl:     p.VideoUrl,
				VideoCaption: p.VideoCaption,
				Query:        p.Query,
			}
			if p.VideoPublisher != "" {
				if err := tx.GetOrCreateVideoPublisher(ctx, p.VideoPublisher); err != nil {
					return err
				}
				video.VideoPublisherID = &p.VideoPublisher
			}
			return tx.UpsertVideoData(ctx, video)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "fail to ingest video %d", i)
		}
		utils.IncrBestEffort(s.Statsd, utils.MetricVideoUpserted)
	}
	return payloads, nil
}
