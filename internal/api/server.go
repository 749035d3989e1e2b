// Package api exposes the dealership backend over HTTP with gin.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lukman83/autolot/internal/analytics"
	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/financing"
	"github.com/lukman83/autolot/internal/models"
)

// QuoteService answers financing quote requests.
type QuoteService interface {
	Quote(ctx context.Context, body map[string]any) (*financing.Result, error)
}

// SyncService runs one catalog sync.
type SyncService interface {
	Run(ctx context.Context) (catalog.Result, error)
}

// Catalog reads synced vehicles.
type Catalog interface {
	Vehicles(ctx context.Context) ([]models.Vehicle, error)
	VehicleBySlug(ctx context.Context, slug string) (*models.Vehicle, error)
}

// EventSink stores analytics events.
type EventSink interface {
	InsertEvent(ctx context.Context, ev models.Event) error
}

// ReportSource aggregates stored events for the admin dashboard.
type ReportSource interface {
	AnalyticsReport(ctx context.Context, start, end time.Time) (*models.AnalyticsReport, error)
}

// Deps wires the router. A nil Quotes or Syncer answers 500 with a configuration error.
type Deps struct {
	Quotes     QuoteService
	Syncer     SyncService
	Catalog    Catalog
	Events     EventSink
	Analytics  *analytics.Builder
	CronSecret string

	// Reports backs /api/admin/analytics, which is closed unless AdminAPIKey is set.
	Reports     ReportSource
	AdminAPIKey string
	Now         func() time.Time

	// MCP, when set, is mounted at /mcp behind MCPAPIKey.
	MCP       http.Handler
	MCPAPIKey string
}

type handler struct {
	Deps
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Analytics == nil {
		d.Analytics = analytics.NewBuilder("")
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handler{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), requestLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/creditcar/quote", h.quote)
	api.GET("/meli/sync", bearerAuth(d.CronSecret, "cron"), h.sync)
	api.GET("/vehicles", h.listVehicles)
	api.GET("/vehicles/:slug", h.getVehicle)
	api.POST("/analytics/track", h.track)
	api.GET("/admin/analytics", adminAuth(d.AdminAPIKey), h.analyticsReport)

	if d.MCP != nil {
		mcp := gin.WrapH(d.MCP)
		auth := bearerAuth(d.MCPAPIKey, "mcp")
		r.GET("/mcp", auth, mcp)
		r.POST("/mcp", auth, mcp)
		r.DELETE("/mcp", auth, mcp)
	}
	return r
}

// NewServer wraps the router with the timeouts used in production.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[http] %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}
