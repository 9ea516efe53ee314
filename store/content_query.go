package store

import (
	"context"
	"time"

	"github.com/Luismorlan/contentmux/model"
	"github.com/Luismorlan/contentmux/utils"
	"gorm.io/gorm"
)

// ContentFilter narrows the content set shared by the list and stats
// endpoints. Zero values mean "not filtered".
type ContentFilter struct {
	AuthorID       *uint
	AuthorUsername string
	TagID          *uint
	CreatedSince   *time.Time
	Title          string
	// MatchNothing is set when a filter value could not possibly match, for
	// example a non numeric author id.
	MatchNothing bool
}

// ContentStats are the raw sums over a filtered content set.
type ContentStats struct {
	TotalLikes     int64
	TotalShares    int64
	TotalViews     int64
	TotalComments  int64
	TotalFollowers int64
	TotalContents  int64
}

func (s *Store) filteredContents(ctx context.Context, f ContentFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Content{})
	if f.MatchNothing {
		return q.Where("1 = 0")
	}
	if f.AuthorID != nil {
		q = q.Where("contents.author_id = ?", *f.AuthorID)
	}
	if f.AuthorUsername != "" {
		q = q.Where(
			"contents.author_id IN (?)",
			s.db.Model(&model.Author{}).Select("id").
				Where(`LOWER(username) LIKE ? ESCAPE '\'`, utils.ContainsPattern(f.AuthorUsername)),
		)
	}
	if f.TagID != nil {
		q = q.Where(
			"contents.id IN (?)",
			s.db.Model(&model.ContentTag{}).Select("content_id").Where("tag_id = ?", *f.TagID),
		)
	}
	if f.CreatedSince != nil {
		q = q.Where("contents.created_at >= ?", f.CreatedSince.UTC())
	}
	if f.Title != "" {
		q = q.Where(`LOWER(contents.title) LIKE ? ESCAPE '\'`, utils.ContainsPattern(f.Title))
	}
	return q
}

// CountContents returns the size of the filtered set.
func (s *Store) CountContents(ctx context.Context, f ContentFilter) (int64, error) {
	var count int64
	err := s.filteredContents(ctx, f).Count(&count).Error
	return count, err
}

// ListContents returns one page of the filtered set, newest first, with
// Author populated. Authors are loaded with one extra query per page.
func (s *Store) ListContents(ctx context.Context, f ContentFilter, offset int, limit int) ([]*model.Content, error) {
	var contents []*model.Content
	err := s.filteredContents(ctx, f).
		Preload("Author").
		Order("contents.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&contents).Error
	if err != nil {
		return nil, err
	}
	return contents, nil
}

// TagNamesByContentIDs returns tag names keyed by content id for every id in
// contentIDs, in one query.
func (s *Store) TagNamesByContentIDs(ctx context.Context, contentIDs []uint) (map[uint][]string, error) {
	res := make(map[uint][]string, len(contentIDs))
	if len(contentIDs) == 0 {
		return res, nil
	}

	var rows []struct {
		ContentID uint
		Name      string
	}
	err := s.db.WithContext(ctx).
		Table("content_tags").
		Select("content_tags.content_id AS content_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = content_tags.tag_id").
		Where("content_tags.content_id IN ?", contentIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.ContentID] = append(res[row.ContentID], row.Name)
	}
	return res, nil
}

// AggregateContents sums counters over the filtered set, followers are
// summed over each matching content's author.
func (s *Store) AggregateContents(ctx context.Context, f ContentFilter) (*ContentStats, error) {
	var stats ContentStats
	err := s.filteredContents(ctx, f).
		Joins("JOIN authors ON authors.id = contents.author_id").
		Select(`COALESCE(SUM(contents.like_count), 0) AS total_likes,
			COALESCE(SUM(contents.share_count), 0) AS total_shares,
			COALESCE(SUM(contents.view_count), 0) AS total_views,
			COALESCE(SUM(contents.comment_count), 0) AS total_comments,
			COALESCE(SUM(authors.followers), 0) AS total_followers,
			COUNT(contents.id) AS total_contents`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
