package model

import "time"

/*

Tag is a hashtag seen on at least one content. Names are case sensitive and
stored as received.

Id: primary key, referenced by the tag_id filter
Name: hashtag text, unique
*/
type Tag struct {
	Id        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string `gorm:"uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}
