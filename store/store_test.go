package store

import (
	"context"
	"testing"
	"time"

	"github.com/Luismorlan/contentmux/model"
	"github.com/Luismorlan/contentmux/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	db, _ := utils.CreateTempDB(t)
	return New(db)
}

func mustAuthor(t *testing.T, s *Store, uniqueID string, username string, followers int64) *model.Author {
	author := &model.Author{UniqueID: uniqueID, Username: username, Name: username, Followers: followers}
	_, err := s.UpsertAuthor(context.Background(), author, true)
	require.Nil(t, err)
	return author
}

func mustContent(t *testing.T, s *Store, uniqueID string, author *model.Author, title string, likes, comments, views, shares int64) *model.Content {
	content := &model.Content{
		UniqueID:     uniqueID,
		AuthorID:     author.Id,
		Title:        title,
		LikeCount:    likes,
		CommentCount: comments,
		ViewCount:    views,
		ShareCount:   shares,
	}
	_, err := s.UpsertContent(context.Background(), content)
	require.Nil(t, err)
	return content
}

func TestUpsertAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := &model.Author{UniqueID: "a1", Username: "old", Followers: 10}
	created, err := s.UpsertAuthor(ctx, author, true)
	require.Nil(t, err)
	assert.True(t, created)
	assert.NotZero(t, author.Id)
	firstID := author.Id

	// Followers left alone when not requested.
	again := &model.Author{UniqueID: "a1", Username: "new", Followers: 0}
	created, err = s.UpsertAuthor(ctx, again, false)
	require.Nil(t, err)
	assert.False(t, created)
	assert.Equal(t, firstID, again.Id)
	assert.Equal(t, "new", again.Username)
	assert.Equal(t, int64(10), again.Followers)

	again = &model.Author{UniqueID: "a1", Username: "new", Followers: 42}
	_, err = s.UpsertAuthor(ctx, again, true)
	require.Nil(t, err)
	assert.Equal(t, int64(42), again.Followers)

	var count int64
	require.Nil(t, s.DB().Model(&model.Author{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertContentOverwritesCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a1 := mustAuthor(t, s, "a1", "one", 0)
	a2 := mustAuthor(t, s, "a2", "two", 0)

	content := mustContent(t, s, "c1", a1, "title", 1, 2, 3, 4)
	firstID := content.Id
	createdAt := content.CreatedAt

	updated := &model.Content{UniqueID: "c1", AuthorID: a2.Id, Title: "renamed", LikeCount: 9}
	created, err := s.UpsertContent(ctx, updated)
	require.Nil(t, err)
	assert.False(t, created)
	assert.Equal(t, firstID, updated.Id)
	assert.Equal(t, a2.Id, updated.AuthorID)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, int64(9), updated.LikeCount)
	assert.Equal(t, int64(0), updated.ViewCount)
	assert.True(t, createdAt.Equal(updated.CreatedAt))
}

func TestTagsAreUniqueAndAttachedOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustAuthor(t, s, "a1", "one", 0)
	content := mustContent(t, s, "c1", author, "title", 0, 0, 0, 0)

	tag, err := s.GetOrCreateTag(ctx, "go")
	require.Nil(t, err)
	same, err := s.GetOrCreateTag(ctx, "go")
	require.Nil(t, err)
	assert.Equal(t, tag.Id, same.Id)

	require.Nil(t, s.AttachTag(ctx, content.Id, tag.Id))
	require.Nil(t, s.AttachTag(ctx, content.Id, tag.Id))
	count, err := s.CountContentTags(ctx, content.Id)
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)

	names, err := s.TagNamesByContentIDs(ctx, []uint{content.Id, content.Id + 1})
	require.Nil(t, err)
	assert.Equal(t, map[uint][]string{content.Id: {"go"}}, names)

	names, err = s.TagNamesByContentIDs(ctx, nil)
	require.Nil(t, err)
	assert.Empty(t, names)
}

func TestInTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx *Store) error {
		if _, err := tx.UpsertAuthor(ctx, &model.Author{UniqueID: "a1"}, false); err != nil {
			return err
		}
		return errors.New("later step failed")
	})
	assert.NotNil(t, err)

	var count int64
	require.Nil(t, s.DB().Model(&model.Author{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetContentWithAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustAuthor(t, s, "a1", "one", 0)
	content := mustContent(t, s, "c1", author, "title", 0, 0, 0, 0)

	loaded, err := s.GetContentWithAuthor(ctx, content.Id)
	require.Nil(t, err)
	require.NotNil(t, loaded.Author)
	assert.Equal(t, "one", loaded.Author.Username)

	_, err = s.GetContentWithAuthor(ctx, content.Id+1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestContentFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAuthor(t, s, "a1", "Alice_W", 10)
	bob := mustAuthor(t, s, "a2", "bob", 5)
	c1 := mustContent(t, s, "c1", alice, "Learning Go", 10, 0, 0, 1)
	c2 := mustContent(t, s, "c2", bob, "go 100% faster", 20, 1, 50, 2)
	c3 := mustContent(t, s, "c3", bob, "Rust", 0, 0, 0, 0)

	tag, err := s.GetOrCreateTag(ctx, "lang")
	require.Nil(t, err)
	require.Nil(t, s.AttachTag(ctx, c3.Id, tag.Id))

	old := time.Now().UTC().Add(-30 * 24 * time.Hour)
	require.Nil(t, s.DB().Model(&model.Content{}).Where("id = ?", c1.Id).Update("created_at", old).Error)

	ids := func(f ContentFilter) []uint {
		contents, err := s.ListContents(ctx, f, 0, 100)
		require.Nil(t, err)
		res := []uint{}
		for _, c := range contents {
			res = append(res, c.Id)
			require.NotNil(t, c.Author)
		}
		return res
	}

	assert.Equal(t, []uint{c3.Id, c2.Id, c1.Id}, ids(ContentFilter{}))
	assert.Equal(t, []uint{c3.Id, c2.Id}, ids(ContentFilter{AuthorID: &bob.Id}))
	assert.Equal(t, []uint{c1.Id}, ids(ContentFilter{AuthorUsername: "alice_"}))
	assert.Equal(t, []uint{c3.Id}, ids(ContentFilter{TagID: &tag.Id}))
	assert.Equal(t, []uint{c2.Id, c1.Id}, ids(ContentFilter{Title: "GO"}))
	// LIKE wildcards in user input are literal.
	assert.Equal(t, []uint{c2.Id}, ids(ContentFilter{Title: "100%"}))
	assert.Equal(t, []uint{}, ids(ContentFilter{MatchNothing: true}))

	since := time.Now().UTC().Add(-7 * 24 * time.Hour)
	assert.Equal(t, []uint{c3.Id, c2.Id}, ids(ContentFilter{CreatedSince: &since}))

	count, err := s.CountContents(ctx, ContentFilter{AuthorID: &bob.Id, Title: "rust"})
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)

	page, err := s.ListContents(ctx, ContentFilter{}, 1, 1)
	require.Nil(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, c2.Id, page[0].Id)
}

func TestAggregateContents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAuthor(t, s, "a1", "alice", 10)
	bob := mustAuthor(t, s, "a2", "bob", 5)
	mustContent(t, s, "c1", alice, "one", 10, 0, 0, 1)
	mustContent(t, s, "c2", bob, "two", 20, 1, 50, 2)

	stats, err := s.AggregateContents(ctx, ContentFilter{})
	require.Nil(t, err)
	assert.Equal(t, ContentStats{
		TotalLikes:     30,
		TotalShares:    3,
		TotalViews:     50,
		TotalComments:  1,
		TotalFollowers: 15,
		TotalContents:  2,
	}, *stats)

	stats, err = s.AggregateContents(ctx, ContentFilter{MatchNothing: true})
	require.Nil(t, err)
	assert.Equal(t, ContentStats{}, *stats)
}

func TestVideoPublisherUpsertPaths(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.Nil(t, s.UpsertVideoPublisher(ctx, &model.VideoPublisher{UserName: "alice", Followers: 10, Likes: 1}))
	require.Nil(t, s.GetOrCreateVideoPublisher(ctx, "alice"))
	require.Nil(t, s.GetOrCreateVideoPublisher(ctx, "bob"))

	var alice, bob model.VideoPublisher
	require.Nil(t, s.DB().Where("user_name = ?", "alice").Take(&alice).Error)
	require.Nil(t, s.DB().Where("user_name = ?", "bob").Take(&bob).Error)
	assert.Equal(t, int64(10), alice.Followers)
	assert.Equal(t, int64(0), bob.Followers)

	require.Nil(t, s.UpsertVideoPublisher(ctx, &model.VideoPublisher{UserName: "alice", Followers: 3}))
	require.Nil(t, s.DB().Where("user_name = ?", "alice").Take(&alice).Error)
	assert.Equal(t, int64(3), alice.Followers)
	assert.Equal(t, int64(0), alice.Likes)
}

func TestVideoQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.Nil(t, s.UpsertVideoPublisher(ctx, &model.VideoPublisher{UserName: "alice", Followers: 100, Likes: 1}))
	require.Nil(t, s.UpsertVideoPublisher(ctx, &model.VideoPublisher{UserName: "bob", Followers: 10, Likes: 50}))

	alice, bob := "alice", "bob"
	v1 := &model.VideoData{VideoUrl: "https://v/1", VideoCaption: "Sunny beach", VideoPublisherID: &alice}
	v2 := &model.VideoData{VideoUrl: "https://v/2", VideoCaption: "Rainy day", VideoPublisherID: &bob}
	v3 := &model.VideoData{VideoUrl: "https://v/3", VideoCaption: "beach at night"}
	for _, v := range []*model.VideoData{v1, v2, v3} {
		require.Nil(t, s.UpsertVideoData(ctx, v))
		assert.NotZero(t, v.Id)
	}

	// Same url updates in place.
	again := &model.VideoData{VideoUrl: "https://v/1", VideoCaption: "Sunny BEACH", VideoPublisherID: &alice}
	require.Nil(t, s.UpsertVideoData(ctx, again))
	assert.Equal(t, v1.Id, again.Id)

	urls := func(f VideoFilter) []string {
		videos, err := s.ListVideos(ctx, f, 0, 10)
		require.Nil(t, err)
		res := []string{}
		for _, v := range videos {
			res = append(res, v.VideoUrl)
		}
		return res
	}
	assert.Equal(t, []string{"https://v/2", "https://v/1"}, urls(VideoFilter{Ordering: OrderByLikesDesc, VideoCaption: "y"}))
	assert.Equal(t, []string{"https://v/1", "https://v/2"}, urls(VideoFilter{Ordering: OrderByLikesAsc, VideoCaption: "y"}))
	assert.Equal(t, []string{"https://v/1"}, urls(VideoFilter{UserName: "ALI"}))
	assert.ElementsMatch(t, []string{"https://v/1", "https://v/3"}, urls(VideoFilter{VideoCaption: "beach"}))

	count, err := s.CountVideos(ctx, VideoFilter{VideoCaption: "beach"})
	require.Nil(t, err)
	assert.Equal(t, int64(2), count)

	video, err := s.GetVideo(ctx, v1.Id)
	require.Nil(t, err)
	require.NotNil(t, video.VideoPublisher)
	assert.Equal(t, int64(100), video.VideoPublisher.Followers)
	assert.Equal(t, "Sunny BEACH", video.VideoCaption)

	_, err = s.GetVideo(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestParseVideoOrdering(t *testing.T) {
	assert.Equal(t, OrderByLikesDesc, ParseVideoOrdering("-likes"))
	assert.Equal(t, OrderByFollowersAsc, ParseVideoOrdering(""))
	assert.Equal(t, OrderByFollowersAsc, ParseVideoOrdering("video_url"))
}
