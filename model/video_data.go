package model

import "time"

/*

VideoData is a scraped video

Id: primary key, used by the detail endpoint
VideoUrl: unique, natural key of the video
VideoCaption: caption text
VideoPublisherID:
VideoPublisher: optional publisher, "belongs-to" relation, deleting a
publisher leaves the video untouched
Query: the search query that produced this video
*/
type VideoData struct {
	Id               uint `gorm:"primaryKey"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	VideoUrl         string `gorm:"uniqueIndex;not null"`
	VideoCaption     string
	VideoPublisherID *string         `gorm:"index;size:256"`
	VideoPublisher   *VideoPublisher `gorm:"foreignKey:VideoPublisherID;references:UserName;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Query            string
}

func (VideoData) TableName() string {
	return "video_data"
}
