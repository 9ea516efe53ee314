package model

import "time"

/*

VideoPublisher is the account that published a scraped video

UserName: primary key, natural key of the publisher
Following, Followers, Likes: account counters
*/
type VideoPublisher struct {
	UserName  string    `gorm:"primaryKey;size:256" json:"user_name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Following int64     `gorm:"not null;default:0" json:"following"`
	Followers int64     `gorm:"not null;default:0" json:"followers"`
	Likes     int64     `gorm:"not null;default:0" json:"likes"`
}

func (VideoPublisher) TableName() string {
	return "video_publishers"
}
