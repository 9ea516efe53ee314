package server

import (
	"time"

	"github.com/Luismorlan/contentmux/model"
	"github.com/Luismorlan/contentmux/store"
	"github.com/jinzhu/copier"
)

// AuthorView is an Author without its metadata and secret.
type AuthorView struct {
	Id        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UniqueID  string    `json:"unique_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Url       string    `json:"url"`
	Title     string    `json:"title"`
	Followers int64     `json:"followers"`
}

// ContentView is a Content without its metadata and secret, with the derived
// engagement numbers and tag names.
type ContentView struct {
	Id              uint       `json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	UniqueID        string     `json:"unique_id"`
	AuthorID        uint       `json:"author"`
	Title           string     `json:"title"`
	ThumbnailUrl    string     `json:"thumbnail_url"`
	PublishedAt     *time.Time `json:"published_at"`
	LikeCount       int64      `json:"like_count"`
	CommentCount    int64      `json:"comment_count"`
	ShareCount      int64      `json:"share_count"`
	ViewCount       int64      `json:"view_count"`
	TotalEngagement int64      `json:"total_engagement" copier:"-"`
	EngagementRate  float64    `json:"engagement_rate" copier:"-"`
	Tags            []string   `json:"tags" copier:"-"`
}

// ContentItem is one element of the content list and of the ingestion
// response.
type ContentItem struct {
	Content ContentView `json:"content"`
	Author  AuthorView  `json:"author"`
}

func newContentItem(content *model.Content, author *model.Author, tags []string) (ContentItem, error) {
	var item ContentItem
	if err := copier.Copy(&item.Content, content); err != nil {
		return item, err
	}
	if author != nil {
		if err := copier.Copy(&item.Author, author); err != nil {
			return item, err
		}
	}
	item.Content.TotalEngagement = content.TotalEngagement()
	item.Content.EngagementRate = content.EngagementRate()
	item.Content.Tags = tags
	if item.Content.Tags == nil {
		item.Content.Tags = []string{}
	}
	return item, nil
}

// StatsView is the response of the stats endpoint. TotalEngagement leaves
// views out, unlike the per content total.
type StatsView struct {
	TotalLikes          int64   `json:"total_likes"`
	TotalShares         int64   `json:"total_shares"`
	TotalViews          int64   `json:"total_views"`
	TotalComments       int64   `json:"total_comments"`
	TotalEngagement     int64   `json:"total_engagement" copier:"-"`
	TotalEngagementRate float64 `json:"total_engagement_rate" copier:"-"`
	TotalContents       int64   `json:"total_contents"`
	TotalFollowers      int64   `json:"total_followers"`
}

func newStatsView(stats *store.ContentStats) (StatsView, error) {
	var view StatsView
	if err := copier.Copy(&view, stats); err != nil {
		return view, err
	}
	view.TotalEngagement = stats.TotalLikes + stats.TotalShares + stats.TotalComments
	view.TotalEngagementRate = model.EngagementRate(view.TotalEngagement, stats.TotalViews)
	return view, nil
}

// VideoView is one element of the video list.
type VideoView struct {
	Id           uint    `json:"id"`
	VideoUrl     string  `json:"video_url"`
	VideoCaption string  `json:"video_caption"`
	UserName     *string `json:"user_name"`
}

// VideoDetailView adds the publisher counters, which are null for a video
// without publisher.
type VideoDetailView struct {
	VideoView
	Following *int64 `json:"following"`
	Followers *int64 `json:"followers"`
	Likes     *int64 `json:"likes"`
}

func newVideoView(video *model.VideoData) VideoView {
	return VideoView{
		Id:           video.Id,
		VideoUrl:     video.VideoUrl,
		VideoCaption: video.VideoCaption,
		UserName:     video.VideoPublisherID,
	}
}

func newVideoDetailView(video *model.VideoData) VideoDetailView {
	view := VideoDetailView{VideoView: newVideoView(video)}
	if p := video.VideoPublisher; p != nil {
		view.Following = &p.Following
		view.Followers = &p.Followers
		view.Likes = &p.Likes
	}
	return view
}
