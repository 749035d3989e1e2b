package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/store"
)

// GET /api/meli/sync
func (h *handler) sync(c *gin.Context) {
	if h.Syncer == nil {
		fail(c, http.StatusInternalServerError, "marketplace sync is not configured")
		return
	}
	res, err := h.Syncer.Run(c.Request.Context())
	if err != nil {
		log.Printf("[sync] failed: %v", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": res.Count})
}

// GET /api/vehicles?brand=
func (h *handler) listVehicles(c *gin.Context) {
	vehicles, err := h.Catalog.Vehicles(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "vehicles": catalog.Listings(vehicles, c.Query("brand"))})
}

// GET /api/vehicles/:slug
func (h *handler) getVehicle(c *gin.Context) {
	v, err := h.Catalog.VehicleBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "vehicle": catalog.NewListing(*v)})
}
