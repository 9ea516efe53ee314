package store

import (
	"context"

	"github.com/Luismorlan/contentmux/model"
	"github.com/Luismorlan/contentmux/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoOrdering names a supported sort of the video list.
type VideoOrdering string

const (
	OrderByFollowersAsc  VideoOrdering = "followers"
	OrderByFollowersDesc VideoOrdering = "-followers"
	OrderByLikesAsc      VideoOrdering = "likes"
	OrderByLikesDesc     VideoOrdering = "-likes"
)

var videoOrderClauses = map[VideoOrdering]string{
	OrderByFollowersAsc:  "video_publishers.followers ASC",
	OrderByFollowersDesc: "video_publishers.followers DESC",
	OrderByLikesAsc:      "video_publishers.likes ASC",
	OrderByLikesDesc:     "video_publishers.likes DESC",
}

// ParseVideoOrdering maps the ordering query param to a VideoOrdering,
// unknown values fall back to ascending followers.
func ParseVideoOrdering(s string) VideoOrdering {
	o := VideoOrdering(s)
	if _, ok := videoOrderClauses[o]; ok {
		return o
	}
	return OrderByFollowersAsc
}

// VideoFilter narrows the video list.
type VideoFilter struct {
	UserName     string
	VideoCaption string
	Ordering     VideoOrdering
}

// UpsertVideoPublisher inserts publisher or overwrites every counter of the
// row with the same UserName.
func (s *Store) UpsertVideoPublisher(ctx context.Context, publisher *model.VideoPublisher) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"following", "followers", "likes", "updated_at"}),
	}).Create(publisher).Error
	return errors.Wrapf(err, "upsert video publisher %s", publisher.UserName)
}

// GetOrCreateVideoPublisher makes sure a publisher named userName exists. An
// existing row keeps its counters.
func (s *Store) GetOrCreateVideoPublisher(ctx context.Context, userName string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_name"}},
		DoNothing: true,
	}).Create(&model.VideoPublisher{UserName: userName}).Error
	return errors.Wrapf(err, "get or create video publisher %s", userName)
}

// UpsertVideoData inserts video or overwrites caption, publisher and query of
// the row with the same VideoUrl.
func (s *Store) UpsertVideoData(ctx context.Context, video *model.VideoData) error {
	db := s.db.WithContext(ctx)
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_url"}},
		DoUpdates: clause.AssignmentColumns([]string{"video_caption", "video_publisher_id", "query", "updated_at"}),
	}).Create(video).Error
	if err != nil {
		return errors.Wrapf(err, "upsert video %s", video.VideoUrl)
	}

	var stored model.VideoData
	if err := db.Where("video_url = ?", video.VideoUrl).Take(&stored).Error; err != nil {
		return errors.Wrapf(err, "reload video %s", video.VideoUrl)
	}
	*video = stored
	return nil
}

func (s *Store) filteredVideos(ctx context.Context, f VideoFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.VideoData{}).
		Joins("LEFT JOIN video_publishers ON video_publishers.user_name = video_data.video_publisher_id")
	if f.UserName != "" {
		q = q.Where(`LOWER(video_data.video_publisher_id) LIKE ? ESCAPE '\'`, utils.ContainsPattern(f.UserName))
	}
	if f.VideoCaption != "" {
		q = q.Where(`LOWER(video_data.video_caption) LIKE ? ESCAPE '\'`, utils.ContainsPattern(f.VideoCaption))
	}
	return q
}

// CountVideos returns the size of the filtered video set.
func (s *Store) CountVideos(ctx context.Context, f VideoFilter) (int64, error) {
	var count int64
	err := s.filteredVideos(ctx, f).Count(&count).Error
	return count, err
}

// ListVideos returns one page of the filtered video set with VideoPublisher
// populated. Ties are broken by id so that pages are stable.
func (s *Store) ListVideos(ctx context.Context, f VideoFilter, offset int, limit int) ([]*model.VideoData, error) {
	order, ok := videoOrderClauses[f.Ordering]
	if !ok {
		order = videoOrderClauses[OrderByFollowersAsc]
	}

	var videos []*model.VideoData
	err := s.filteredVideos(ctx, f).
		Select("video_data.*").
		Preload("VideoPublisher").
		Order(order).
		Order("video_data.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// GetVideo loads a video and its publisher by primary key.
func (s *Store) GetVideo(ctx context.Context, id uint) (*model.VideoData, error) {
	var video model.VideoData
	err := s.db.WithContext(ctx).Preload("VideoPublisher").Where("id = ?", id).Take(&video).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &video, nil
}
