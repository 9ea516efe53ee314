package server

import (
	"net/http"

	"github.com/Luismorlan/contentmux/model"
	"github.com/gin-gonic/gin"
)

// ListContents serves GET /api/contents/.
func (s *Server) ListContents(c *gin.Context) {
	ctx := c.Request.Context()
	filter := parseContentFilter(c, s.now())

	req, ok := s.Paginator.Parse(c)
	if !ok {
		respondInvalidPage(c)
		return
	}
	count, err := s.Store.CountContents(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Page > req.NumPages(count) {
		respondInvalidPage(c)
		return
	}

	contents, err := s.Store.ListContents(ctx, filter, req.Offset(), req.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := s.contentItems(c, contents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Paginator.Envelope(c, req, count, items))
}

// CreateContents serves POST /api/contents/.
func (s *Server) CreateContents(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err)
		return
	}
	ingested, err := s.Contents.IngestRaw(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}

	contents := make([]*model.Content, 0, len(ingested))
	for _, in := range ingested {
		in.Content.Author = in.Author
		contents = append(contents, in.Content)
	}
	items, err := s.contentItems(c, contents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ContentStats serves GET /api/contents/stats/.
func (s *Server) ContentStats(c *gin.Context) {
	filter := parseContentFilter(c, s.now())
	stats, err := s.Store.AggregateContents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := newStatsView(stats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// contentItems renders contents, which must have Author loaded. Tag names
// of the whole slice are fetched in one query.
func (s *Server) contentItems(c *gin.Context, contents []*model.Content) ([]ContentItem, error) {
	ids := make([]uint, 0, len(contents))
	for _, content := range contents {
		ids = append(ids, content.Id)
	}
	tags, err := s.Store.TagNamesByContentIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}

	items := make([]ContentItem, 0, len(contents))
	for _, content := range contents {
		item, err := newContentItem(content, content.Author, tags[content.Id])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

