package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lukman83/autolot/internal/analytics"
)

// GET /api/admin/analytics?range=today|N or ?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *handler) analyticsReport(c *gin.Context) {
	if h.Reports == nil {
		fail(c, http.StatusInternalServerError, "analytics reports not configured")
		return
	}
	rg := analytics.ParseRange(c.Query("range"), c.Query("from"), c.Query("to"), h.Now())

	report, err := h.Reports.AnalyticsReport(c.Request.Context(), rg.Start, rg.End)
	if err != nil {
		log.Printf("[analytics] report error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "report_failed", "detail": err.Error()})
		return
	}
	report.Label = rg.Label
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": report})
}
