package clients

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// ScraperClient queries the external hashtag scraping service.
type ScraperClient struct {
	http     *HttpClient
	queryURL string
}

func NewScraperClient(http *HttpClient, queryURL string) *ScraperClient {
	return &ScraperClient{http: http, queryURL: queryURL}
}

// ScrapeResult is the upstream answer relayed as is by the proxy endpoint.
type ScrapeResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// QueryHashtag forwards hashtag to the scraping service. Any upstream status
// is returned in ScrapeResult, only transport failures are errors.
func (c *ScraperClient) QueryHashtag(ctx context.Context, hashtag string) (*ScrapeResult, error) {
	res, err := c.http.GetRaw(ctx, c.queryURL, map[string]string{"hashtag": hashtag})
	if err != nil {
		return nil, errors.Wrap(err, "query hashtag")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read hashtag response")
	}
	return &ScrapeResult{
		StatusCode:  res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
