package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Content is a post pulled from the third-party content feed

Id: primary key
CreatedAt: time when entity is created, used by the timeframe filter
UpdatedAt: time when entity is last upserted

UniqueID: external identifier of the content, dedup key for ingestion
AuthorID:
Author: creator of the content, "belongs-to" relation, recomputed on every ingestion
Title: content title
ThumbnailUrl: preview image
PublishedAt: "timestamp" reported by the feed
LikeCount, CommentCount, ShareCount, ViewCount: counters, overwritten on every
ingestion (last write wins)
Tags: tags attached through ContentTag, "many-to-many" relation, never detached
BigMetadata: opaque metadata blob, never exposed by read APIs
SecretValue: opaque secret, never exposed by read APIs
*/
type Content struct {
	Id           uint      `gorm:"primaryKey"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	UniqueID     string  `gorm:"uniqueIndex;not null"`
	AuthorID     uint    `gorm:"index;not null"`
	Author       *Author `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title        string
	ThumbnailUrl string
	PublishedAt  *time.Time
	LikeCount    int64  `gorm:"not null;default:0"`
	CommentCount int64  `gorm:"not null;default:0"`
	ShareCount   int64  `gorm:"not null;default:0"`
	ViewCount    int64  `gorm:"not null;default:0"`
	Tags         []*Tag `gorm:"many2many:content_tags;"`
	BigMetadata  datatypes.JSON
	SecretValue  datatypes.JSON
}

func (Content) TableName() string {
	return "contents"
}

// TotalEngagement sums every interaction counter of a single content,
// including views.
func (c *Content) TotalEngagement() int64 {
	return c.LikeCount + c.CommentCount + c.ViewCount + c.ShareCount
}

// EngagementRate is TotalEngagement as a percentage of views.
func (c *Content) EngagementRate() float64 {
	return EngagementRate(c.TotalEngagement(), c.ViewCount)
}

// EngagementRate returns engagement / views * 100, and 0 when there are no
// views.
func EngagementRate(engagement int64, views int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(engagement) / float64(views) * 100
}
