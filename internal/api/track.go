package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lukman83/autolot/internal/analytics"
)

// POST /api/analytics/track
//
// Beacons may arrive as text/plain, so the body is read raw rather than bound.
func (h *handler) track(c *gin.Context) {
	raw, _ := c.GetRawData()
	client := analytics.Client{
		IP:        analytics.ClientIP(c.GetHeader("X-Forwarded-For"), c.GetHeader("X-Real-IP")),
		UserAgent: c.GetHeader("User-Agent"),
	}

	ev, err := h.Analytics.Build(raw, client)
	switch {
	case errors.Is(err, analytics.ErrEmptyBody), errors.Is(err, analytics.ErrInvalidEventType):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "unknown", "detail": err.Error()})
		return
	}

	if err := h.Events.InsertEvent(c.Request.Context(), ev); err != nil {
		log.Printf("[analytics] insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "db_insert_failed", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
