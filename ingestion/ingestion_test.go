package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Luismorlan/contentmux/model"
	"github.com/Luismorlan/contentmux/store"
	"github.com/Luismorlan/contentmux/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	ids []uint
	err error
}

func (f *fakeEnqueuer) EnqueueCommentJob(ctx context.Context, contentID uint) error {
	f.ids = append(f.ids, contentID)
	return f.err
}

func int64Ptr(v int64) *int64 {
	return &v
}

func validPayload(id string, authorID string, hashtags ...string) ContentPayload {
	if hashtags == nil {
		hashtags = []string{}
	}
	return ContentPayload{
		UnqExternalID: id,
		Stats: &StatsPayload{
			Likes:    int64Ptr(10),
			Comments: int64Ptr(2),
			Views:    int64Ptr(100),
			Shares:   int64Ptr(3),
		},
		Author: &AuthorPayload{
			UniqueName:       "user_" + authorID,
			FullName:         "User " + authorID,
			UniqueExternalID: authorID,
			Url:              "https://example.com/" + authorID,
			Title:            "creator",
			BigMetadata:      json.RawMessage(`{"k":"v"}`),
		},
		BigMetadata:      json.RawMessage(`{"raw":true}`),
		SecretValue:      json.RawMessage(`null`),
		ThumbnailViewUrl: "https://example.com/thumb.png",
		Title:            "Title " + id,
		Hashtags:         hashtags,
		Timestamp:        "2024-03-01T10:00:00Z",
	}
}

func newTestContentService(t *testing.T) (*ContentService, *fakeEnqueuer) {
	db, _ := utils.CreateTempDB(t)
	enqueuer := &fakeEnqueuer{}
	return NewContentService(store.New(db), enqueuer, nil), enqueuer
}

func countRows(t *testing.T, s *store.Store, m interface{}) int64 {
	var count int64
	require.Nil(t, s.DB().Model(m).Count(&count).Error)
	return count
}

func TestValidateContentPayloads(t *testing.T) {
	assert.Nil(t, ValidateContentPayloads([]ContentPayload{validPayload("c1", "a1", "x")}))
	assert.Nil(t, ValidateContentPayloads(nil))

	missingStats := validPayload("c2", "a1")
	missingStats.Stats.Views = nil
	negative := validPayload("c3", "a1")
	negative.Stats.Likes = int64Ptr(-1)
	badTimestamp := validPayload("c4", "a1")
	badTimestamp.Timestamp = "not a date"
	emptyTag := validPayload("c5", "a1", "")
	noAuthor := validPayload("c6", "a1")
	noAuthor.Author = nil

	err := ValidateContentPayloads([]ContentPayload{
		validPayload("c1", "a1"), missingStats, negative, badTimestamp, emptyTag, noAuthor,
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	got := map[int]string{}
	for _, fe := range verr.Errors {
		got[fe.Index] = fe.Field
	}
	assert.Equal(t, map[int]string{
		1: "stats.views",
		2: "stats.likes",
		3: "timestamp",
		4: "hashtags[0]",
		5: "author",
	}, got)
	assert.Contains(t, err.Error(), "item 1: stats.views")
}

func TestDecodeContentPayloads(t *testing.T) {
	payloads, err := DecodeContentPayloads([]byte(`[{"unq_external_id":"c1","hashtags":["a"]}]`))
	require.Nil(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, "c1", payloads[0].UnqExternalID)

	_, err = DecodeContentPayloads([]byte(`{"unq_external_id":"c1"}`))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, -1, verr.Errors[0].Index)

	_, err = DecodeContentPayloads([]byte(`[{"stats":{"likes":"many"}}]`))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, verr.Errors[0].Index)

	_, err = DecodeContentPayloads([]byte(`[{"unq_external_id":"c0"},{"unq_external_id":"c1","stats":{"likes":"ten"}},{"hashtags":"x"}]`))
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, 1, verr.Errors[0].Index)
	assert.Equal(t, "stats.likes", verr.Errors[0].Field)
	assert.Equal(t, 2, verr.Errors[1].Index)
	assert.Equal(t, "hashtags", verr.Errors[1].Field)

	_, err = DecodeVideoDataPayloads([]byte(`[{},{"video_caption":5}]`))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Errors[0].Index)
}

func TestPublishedAtAcceptsCommonLayouts(t *testing.T) {
	for _, ts := range []string{"2024-03-01T10:00:00Z", "2024-03-01 10:00:00", "2024-03-01T12:00:00+02:00"} {
		p := ContentPayload{Timestamp: ts}
		got, err := p.PublishedAt()
		require.Nil(t, err, ts)
		assert.True(t, got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)), ts)
	}
}

func TestIngestContentsCreatesThenUpdates(t *testing.T) {
	svc, enqueuer := newTestContentService(t)
	ctx := context.Background()

	res, err := svc.IngestContents(ctx, []ContentPayload{validPayload("c1", "a1", "x", "y", "x")})
	require.Nil(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "c1", res[0].Content.UniqueID)
	assert.Equal(t, res[0].Author.Id, res[0].Content.AuthorID)
	assert.Equal(t, int64(115), res[0].Content.TotalEngagement())
	assert.Equal(t, []uint{res[0].Content.Id}, enqueuer.ids)

	updated := validPayload("c1", "a1", "z")
	updated.Stats.Likes = int64Ptr(50)
	res, err = svc.IngestContents(ctx, []ContentPayload{updated})
	require.Nil(t, err)
	assert.Equal(t, int64(50), res[0].Content.LikeCount)
	assert.Len(t, enqueuer.ids, 1)

	assert.Equal(t, int64(1), countRows(t, svc.Store, &model.Author{}))
	assert.Equal(t, int64(1), countRows(t, svc.Store, &model.Content{}))
	assert.Equal(t, int64(3), countRows(t, svc.Store, &model.Tag{}))
	assert.Equal(t, int64(3), countRows(t, svc.Store, &model.ContentTag{}))

	var content model.Content
	require.Nil(t, svc.Store.DB().Take(&content).Error)
	assert.JSONEq(t, `{"raw":true}`, string(content.BigMetadata))
	require.NotNil(t, content.PublishedAt)
	assert.True(t, content.PublishedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestIngestContentsAuthorFollowers(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	withFollowers := validPayload("c1", "a1")
	withFollowers.Author.Followers = int64Ptr(70)
	_, err := svc.IngestContents(ctx, []ContentPayload{withFollowers, validPayload("c2", "a1")})
	require.Nil(t, err)

	var author model.Author
	require.Nil(t, svc.Store.DB().Where("unique_id = ?", "a1").Take(&author).Error)
	assert.Equal(t, int64(70), author.Followers)
}

func TestIngestContentsRejectsBatchBeforeWriting(t *testing.T) {
	svc, enqueuer := newTestContentService(t)
	bad := validPayload("c2", "a2")
	bad.Title = ""

	_, err := svc.IngestContents(context.Background(), []ContentPayload{validPayload("c1", "a1"), bad})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, int64(0), countRows(t, svc.Store, &model.Content{}))
	assert.Empty(t, enqueuer.ids)
}

func TestIngestContentsIgnoresEnqueueFailure(t *testing.T) {
	svc, enqueuer := newTestContentService(t)
	enqueuer.err = errors.New("queue closed")

	res, err := svc.IngestContents(context.Background(), []ContentPayload{validPayload("c1", "a1")})
	require.Nil(t, err)
	assert.Len(t, res, 1)
	assert.Len(t, enqueuer.ids, 1)
	assert.Equal(t, int64(1), countRows(t, svc.Store, &model.Content{}))
}

func TestIngestRaw(t *testing.T) {
	svc, _ := newTestContentService(t)
	body, err := json.Marshal([]ContentPayload{validPayload("c1", "a1"), validPayload("c2", "a2")})
	require.Nil(t, err)

	res, err := svc.IngestRaw(context.Background(), body)
	require.Nil(t, err)
	assert.Len(t, res, 2)

	_, err = svc.IngestRaw(context.Background(), []byte("<html>"))
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestVideoService(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	st := store.New(db)
	svc := NewVideoService(st, nil)
	ctx := context.Background()

	publishers := []VideoPublisherPayload{{UserName: "alice", Following: 1, Followers: 2, Likes: 3}}
	echoed, err := svc.IngestPublishers(ctx, publishers)
	require.Nil(t, err)
	assert.Equal(t, publishers, echoed)

	videos := []VideoDataPayload{
		{VideoUrl: "https://v.example.com/1", VideoCaption: "one", VideoPublisher: "alice"},
		{VideoUrl: "https://v.example.com/2", VideoCaption: "two", VideoPublisher: "dave"},
		{VideoUrl: "https://v.example.com/3", VideoCaption: "three"},
	}
	echoedVideos, err := svc.IngestVideos(ctx, videos)
	require.Nil(t, err)
	assert.Equal(t, videos, echoedVideos)

	var alice model.VideoPublisher
	require.Nil(t, db.Where("user_name = ?", "alice").Take(&alice).Error)
	assert.Equal(t, int64(2), alice.Followers)
	assert.Equal(t, int64(2), countRows(t, st, &model.VideoPublisher{}))
	assert.Equal(t, int64(3), countRows(t, st, &model.VideoData{}))

	_, err = svc.IngestVideos(ctx, []VideoDataPayload{{VideoUrl: "ftp is fine but this is not"}})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.IngestPublishers(ctx, []VideoPublisherPayload{{UserName: "x", Likes: -5}})
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "likes", verr.Errors[0].Field)
}
