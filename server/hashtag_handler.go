package server

import (
	"net/http"

	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/gin-gonic/gin"
)

// QueryHashtag serves GET /api/hash-tag/. The scraping service answer is
// relayed with its own status and body.
func (s *Server) QueryHashtag(c *gin.Context) {
	hashtag := c.Query("hashtag")
	if hashtag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hashtag query param is required"})
		return
	}

	res, err := s.Hashtags.QueryHashtag(c.Request.Context(), hashtag)
	if err != nil {
		Logger.Log.WithError(err).WithField("hashtag", hashtag).Warn("scraping service unreachable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "scraping service unavailable"})
		return
	}
	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(res.StatusCode, contentType, res.Body)
}
