package server

import (
	"net/http"

	"github.com/Luismorlan/contentmux/ingestion"
	"github.com/gin-gonic/gin"
)

// CreateVideos serves POST /api/video-data/.
func (s *Server) CreateVideos(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err)
		return
	}
	payloads, err := ingestion.DecodeVideoDataPayloads(body)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := s.Videos.IngestVideos(c.Request.Context(), payloads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// CreateVideoPublishers serves POST /api/video-publisher/.
func (s *Server) CreateVideoPublishers(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err)
		return
	}
	payloads, err := ingestion.DecodeVideoPublisherPayloads(body)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := s.Videos.IngestPublishers(c.Request.Context(), payloads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListVideos serves GET /api/video-data/all/.
func (s *Server) ListVideos(c *gin.Context) {
	ctx := c.Request.Context()
	filter := parseVideoFilter(c)

	req, ok := s.Paginator.Parse(c)
	if !ok {
		respondInvalidPage(c)
		return
	}
	count, err := s.Store.CountVideos(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Page > req.NumPages(count) {
		respondInvalidPage(c)
		return
	}

	videos, err := s.Store.ListVideos(ctx, filter, req.Offset(), req.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]VideoView, 0, len(videos))
	for _, video := range videos {
		views = append(views, newVideoView(video))
	}
	c.JSON(http.StatusOK, s.Paginator.Envelope(c, req, count, views))
}

// GetVideo serves GET /api/video-data/:id/.
func (s *Server) GetVideo(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	video, err := s.Store.GetVideo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVideoDetailView(video))
}
