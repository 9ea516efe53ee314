package store

import (
	"context"

	"github.com/Luismorlan/contentmux/model"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

var (
	authorUpdateColumns = []string{
		"username", "name", "url", "title", "big_metadata", "secret_value", "updated_at",
	}
	contentUpdateColumns = []string{
		"author_id", "title", "thumbnail_url", "published_at", "big_metadata", "secret_value",
		"like_count", "comment_count", "share_count", "view_count", "updated_at",
	}
)

// UpsertAuthor inserts author or overwrites the row with the same UniqueID.
// Followers is only overwritten when updateFollowers is set. author is
// replaced with the stored row afterwards.
func (s *Store) UpsertAuthor(ctx context.Context, author *model.Author, updateFollowers bool) (created bool, err error) {
	columns := authorUpdateColumns
	if updateFollowers {
		columns = append(append([]string{}, authorUpdateColumns...), "followers")
	}
	created, err = s.upsertByKey(ctx, author, &model.Author{}, "unique_id", author.UniqueID, columns)
	if err != nil {
		return false, errors.Wrapf(err, "upsert author %s", author.UniqueID)
	}

	var stored model.Author
	if err := s.db.WithContext(ctx).Where("unique_id = ?", author.UniqueID).Take(&stored).Error; err != nil {
		return false, errors.Wrapf(err, "reload author %s", author.UniqueID)
	}
	*author = stored
	return created, nil
}

// UpsertContent inserts content or overwrites the row with the same UniqueID,
// author reference and counters included. created reports whether a new row
// was inserted.
func (s *Store) UpsertContent(ctx context.Context, content *model.Content) (created bool, err error) {
	created, err = s.upsertByKey(ctx, content, &model.Content{}, "unique_id", content.UniqueID, contentUpdateColumns)
	if err != nil {
		return false, errors.Wrapf(err, "upsert content %s", content.UniqueID)
	}

	var stored model.Content
	if err := s.db.WithContext(ctx).Where("unique_id = ?", content.UniqueID).Take(&stored).Error; err != nil {
		return false, errors.Wrapf(err, "reload content %s", content.UniqueID)
	}
	*content = stored
	return created, nil
}

// upsertByKey performs INSERT ... ON CONFLICT (key) DO UPDATE SET columns.
// The returned flag is true iff no row with the same key existed before.
func (s *Store) upsertByKey(ctx context.Context, row interface{}, empty interface{}, key string, value interface{}, columns []string) (bool, error) {
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(empty).Where(key+" = ?", value).Count(&existing).Error; err != nil {
		return false, err
	}

	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: key}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
	if err != nil {
		return false, err
	}
	return existing == 0, nil
}

// GetOrCreateTag returns the tag named name, creating it on first sight.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (*model.Tag, error) {
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&model.Tag{Name: name}).Error
	if err != nil {
		return nil, errors.Wrapf(err, "create tag %s", name)
	}

	var tag model.Tag
	if err := db.Where("name = ?", name).Take(&tag).Error; err != nil {
		return nil, errors.Wrapf(err, "load tag %s", name)
	}
	return &tag, nil
}

// AttachTag links a content and a tag, it is a no-op if they are already
// linked.
func (s *Store) AttachTag(ctx context.Context, contentID uint, tagID uint) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ContentTag{ContentID: contentID, TagID: tagID}).Error
	return errors.Wrapf(err, "attach tag %d to content %d", tagID, contentID)
}

// GetContentWithAuthor loads a content and its author by primary key.
func (s *Store) GetContentWithAuthor(ctx context.Context, id uint) (*model.Content, error) {
	var content model.Content
	err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).Take(&content).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &content, nil
}

// CountContentTags returns the number of tag links of a content.
func (s *Store) CountContentTags(ctx context.Context, contentID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ContentTag{}).Where("content_id = ?", contentID).Count(&count).Error
	return count, err
}
