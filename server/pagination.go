package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	pageParam          = "page"
	pageSizeParam      = "page_size"
	pageSizeParamAlt   = "items_per_page"
	defaultPageSize    = 10
	defaultMaxPageSize = 100
)

// Paginator implements page number pagination with a client controlled page
// size.
type Paginator struct {
	DefaultPageSize int
	MaxPageSize     int
}

func NewPaginator(defaultSize int, maxSize int) Paginator {
	if defaultSize <= 0 {
		defaultSize = defaultPageSize
	}
	if maxSize <= 0 {
		maxSize = defaultMaxPageSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	return Paginator{DefaultPageSize: defaultSize, MaxPageSize: maxSize}
}

// PageRequest is a validated page number and size.
type PageRequest struct {
	Page     int
	PageSize int
}

func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// NumPages is at least 1, an empty set still has its first page.
func (r PageRequest) NumPages(count int64) int {
	if count <= 0 {
		return 1
	}
	return int((count + int64(r.PageSize) - 1) / int64(r.PageSize))
}

// Page is the list response envelope.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// Parse reads page and page size from the query. A page that is not a
// positive integer is rejected. A bad page size falls back to the default,
// a large one is clamped to MaxPageSize.
func (p Paginator) Parse(c *gin.Context) (PageRequest, bool) {
	req := PageRequest{Page: 1, PageSize: p.pageSize(c)}
	if raw := c.Query(pageParam); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, false
		}
		req.Page = page
	}
	return req, true
}

func (p Paginator) pageSize(c *gin.Context) int {
	raw := c.Query(pageSizeParam)
	if raw == "" {
		raw = c.Query(pageSizeParamAlt)
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 {
		return p.DefaultPageSize
	}
	if size > p.MaxPageSize {
		return p.MaxPageSize
	}
	return size
}

// Envelope wraps one page of results, next and previous link to the
// neighbour pages of the same request.
func (p Paginator) Envelope(c *gin.Context, req PageRequest, count int64, results interface{}) Page {
	page := Page{Count: count, Results: results}
	if req.Page < req.NumPages(count) {
		page.Next = pageURL(c, req.Page+1)
	}
	if req.Page > 1 {
		page.Previous = pageURL(c, req.Page-1)
	}
	return page
}

// pageURL is the absolute url of the current request pointing at page.
func pageURL(c *gin.Context, page int) *string {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = c.Request.Host

	q := u.Query()
	if page == 1 {
		q.Del(pageParam)
	} else {
		q.Set(pageParam, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
