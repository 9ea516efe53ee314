package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/contentmux/store"
	"github.com/gin-gonic/gin"
)

// About a thousand years.
const maxTimeframeDays = 366 * 1000

// parseContentFilter reads the filters shared by the content list and stats.
// An id that is not a number matches nothing, a timeframe that is not a
// number is ignored.
func parseContentFilter(c *gin.Context, now time.Time) store.ContentFilter {
	var f store.ContentFilter

	if raw := strings.TrimSpace(c.Query("author_id")); raw != "" {
		if id, ok := parseID(raw); ok {
			f.AuthorID = &id
		} else {
			f.MatchNothing = true
		}
	}
	if raw := strings.TrimSpace(c.Query("tag_id")); raw != "" {
		if id, ok := parseID(raw); ok {
			f.TagID = &id
		} else {
			f.MatchNothing = true
		}
	}
	if days, err := strconv.Atoi(strings.TrimSpace(c.Query("timeframe"))); err == nil {
		f.CreatedSince = timeframeCutoff(now, days)
	}
	f.AuthorUsername = c.Query("author_username")
	f.Title = c.Query("title")
	return f
}

// timeframeCutoff returns now minus days, nil when the window reaches past
// any representable creation date.
func timeframeCutoff(now time.Time, days int) *time.Time {
	if days > maxTimeframeDays {
		return nil
	}
	if days < -maxTimeframeDays {
		days = -maxTimeframeDays
	}
	since := now.AddDate(0, 0, -days)
	return &since
}

func parseVideoFilter(c *gin.Context) store.VideoFilter {
	return store.VideoFilter{
		UserName:     c.Query("user_name"),
		VideoCaption: c.Query("video_caption"),
		Ordering:     store.ParseVideoOrdering(c.Query("ordering")),
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
