package clients

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// FeedClient fetches the third-party content feed.
type FeedClient struct {
	http    *HttpClient
	feedURL string
}

func NewFeedClient(http *HttpClient, feedURL string) *FeedClient {
	return &FeedClient{http: http, feedURL: feedURL}
}

// FetchContentFeed returns the raw JSON body of the feed. A body that is not
// valid JSON is an error.
func (c *FeedClient) FetchContentFeed(ctx context.Context) ([]byte, error) {
	body, err := c.http.Get(ctx, c.feedURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch content feed")
	}
	if !json.Valid(body) {
		return nil, errors.Errorf("content feed %s returned a non JSON body", c.feedURL)
	}
	return body, nil
}
