package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Author is the creator of a piece of content on a third-party platform

Id: primary key, referenced by Content.AuthorID and by the author_id filter
CreatedAt: time when entity is created
UpdatedAt: time when entity is last upserted

UniqueID: external identifier of the author, dedup key for ingestion
Username: unique handle on the platform, "unique_name" in payload
Name: display name, "full_name" in payload
Url: link to author page
Title: author title or bio line
Followers: follower count, summed by content stats
BigMetadata: opaque metadata blob, never exposed by read APIs
SecretValue: opaque secret, never exposed by read APIs
*/
type Author struct {
	Id          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	UniqueID    string         `gorm:"uniqueIndex;not null" json:"unique_id"`
	Username    string         `gorm:"index" json:"username"`
	Name        string         `json:"name"`
	Url         string         `json:"url"`
	Title       string         `json:"title"`
	Followers   int64          `gorm:"not null;default:0" json:"followers"`
	BigMetadata datatypes.JSON `json:"-"`
	SecretValue datatypes.JSON `json:"-"`
}

func (Author) TableName() string {
	return "authors"
}
