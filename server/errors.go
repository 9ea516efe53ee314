package server

import (
	"net/http"

	"github.com/Luismorlan/contentmux/clients"
	"github.com/Luismorlan/contentmux/ingestion"
	"github.com/Luismorlan/contentmux/store"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// respondError maps service errors to http responses. Validation errors
// carry their field detail, everything unexpected is a 500.
func respondError(c *gin.Context, err error) {
	var validationErr *ingestion.ValidationError
	var upstreamErr *clients.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, validationErr)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.As(err, &upstreamErr):
		Logger.Log.WithError(err).Warn("upstream call failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "upstream request failed",
			"upstream_status": upstreamErr.StatusCode,
		})
	default:
		Logger.Log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
	c.Error(err)
}

func respondInvalidPage(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
}
