package model

import "time"

// ContentTag is the join table between Content and Tag. Rows are append
// only, a later ingestion that drops a hashtag keeps the old row.
type ContentTag struct {
	ContentID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

func (ContentTag) TableName() string {
	return "content_tags"
}
