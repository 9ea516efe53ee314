package server

import (
	"context"
	"time"

	"github.com/Luismorlan/contentmux/clients"
	"github.com/Luismorlan/contentmux/ingestion"
	"github.com/Luismorlan/contentmux/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

// HashtagQuerier is the scraping service behind GET /api/hash-tag/.
type HashtagQuerier interface {
	QueryHashtag(ctx context.Context, hashtag string) (*clients.ScrapeResult, error)
}

// Server holds what the HTTP handlers need.
type Server struct {
	Store     *store.Store
	Contents  *ingestion.ContentService
	Videos    *ingestion.VideoService
	Hashtags  HashtagQuerier
	Paginator Paginator

	// Now is the clock of the timeframe filter, time.Now when nil.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NewRouter builds the gin engine serving every HTTP endpoint.
func NewRouter(s *Server, serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(cors.Default())
	router.Use(gintrace.Middleware(serviceName))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	api.GET("/contents/", s.ListContents)
	api.POST("/contents/", s.CreateContents)
	api.GET("/contents/stats/", s.ContentStats)

	api.POST("/video-data/", s.CreateVideos)
	api.POST("/video-publisher/", s.CreateVideoPublishers)
	api.GET("/video-data/all/", s.ListVideos)
	api.GET("/video-data/:id/", s.GetVideo)

	api.GET("/hash-tag/", s.QueryHashtag)
	return router
}
