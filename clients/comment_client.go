package clients

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// GenerateCommentRequest is sent to the AI comment endpoint.
type GenerateCommentRequest struct {
	ContentID  uint   `json:"content_id"`
	Title      string `json:"title"`
	Url        string `json:"url"`
	AuthorName string `json:"author_name"`
}

type generateCommentResponse struct {
	Comment *string `json:"comment"`
}

// PostCommentRequest is sent to the post comment endpoint. A nil Comment is
// serialized as null.
type PostCommentRequest struct {
	ContentID uint    `json:"content_id"`
	Comment   *string `json:"comment"`
}

// CommentClient calls the AI comment and post comment endpoints.
type CommentClient struct {
	http           *HttpClient
	generateURL    string
	postCommentURL string
}

func NewCommentClient(http *HttpClient, generateURL string, postCommentURL string) *CommentClient {
	return &CommentClient{http: http, generateURL: generateURL, postCommentURL: postCommentURL}
}

// GenerateComment returns the "comment" field of the AI endpoint response,
// nil when the field is absent or null.
func (c *CommentClient) GenerateComment(ctx context.Context, req GenerateCommentRequest) (*string, error) {
	body, err := c.http.PostJSON(ctx, c.generateURL, req)
	if err != nil {
		return nil, errors.Wrap(err, "generate comment")
	}
	var res generateCommentResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errors.Wrap(err, "decode generated comment")
	}
	return res.Comment, nil
}

// PostComment publishes a comment on a content.
func (c *CommentClient) PostComment(ctx context.Context, req PostCommentRequest) error {
	_, err := c.http.PostJSON(ctx, c.postCommentURL, req)
	return errors.Wrap(err, "post comment")
}
