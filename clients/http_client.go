package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	Logger "github.com/Luismorlan/contentmux/utils/log"
)

const maxLoggedBodyBytes = 2048

// UpstreamError is returned when an external collaborator answers with a
// non 2XX status.
type UpstreamError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned http %d", e.URL, e.StatusCode)
}

// HttpClient talks to the external collaborators. Every request carries the
// same header set, which holds the API key.
type HttpClient struct {
	header http.Header
	client *http.Client
}

// NewApiKeyHttpClient returns a client that sends apiKey in header keyHeader
// and gives up on any request after timeout.
func NewApiKeyHttpClient(keyHeader string, apiKey string, timeout time.Duration) *HttpClient {
	header := http.Header{}
	if apiKey != "" {
		header.Set(keyHeader, apiKey)
	}
	return &HttpClient{header: header, client: &http.Client{Timeout: timeout}}
}

// Get issues a GET to uri with params appended to the query string. The
// response body is fully read and returned, non 2XX responses are returned
// as *UpstreamError.
func (c *HttpClient) Get(ctx context.Context, uri string, params map[string]string) ([]byte, error) {
	res, err := c.GetRaw(ctx, uri, params)
	if err != nil {
		return nil, err
	}
	return readBody(uri, res)
}

// GetRaw is Get without status checking, the caller owns the response body.
func (c *HttpClient) GetRaw(ctx context.Context, uri string, params map[string]string) (*http.Response, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// PostJSON marshals payload as the request body and returns the response
// body.
func (c *HttpClient) PostJSON(ctx context.Context, uri string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return readBody(uri, res)
}

func (c *HttpClient) do(req *http.Request) (*http.Response, error) {
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.client.Do(req)
}

func readBody(uri string, res *http.Response) ([]byte, error) {
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if IsNon200HttpResponse(res) {
		LogHttpResponseBody(res, body)
		return nil, &UpstreamError{URL: uri, StatusCode: res.StatusCode, Body: body}
	}
	return body, nil
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode < 200 || res.StatusCode >= 300
}

// Log http response if the error code is not 2XX
func LogHttpResponseBody(res *http.Response, body []byte) {
	if len(body) > maxLoggedBodyBytes {
		body = body[:maxLoggedBodyBytes]
	}
	Logger.Log.Errorf("non-200 http code: %d, response body is: %s", res.StatusCode, string(body))
}
