package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/directory"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
)

// Healthz is the liveness endpoint.
func Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// deviceListResponse is the API response for the device directory.
type deviceListResponse struct {
	Devices   []model.Device `json:"devices"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// GetDevices handles GET /api/devices. An optional filter query narrows
// the snapshot to available or borrowed devices.
func (h *Handler) GetDevices(c *gin.Context) {
	devices, fetchedAt := h.store.Snapshot()
	if fetchedAt.IsZero() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "device directory has not been loaded yet"})
		return
	}

	switch c.Query("filter") {
	case "":
		// full snapshot
	case "available":
		devices = directory.Available(devices)
	case "borrowed":
		devices = directory.Borrowed(devices)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "filter must be 'available' or 'borrowed'"})
		return
	}

	if devices == nil {
		devices = []model.Device{}
	}
	c.JSON(http.StatusOK, deviceListResponse{Devices: devices, FetchedAt: fetchedAt})
}

// RefreshDevices handles POST /api/devices/refresh, the manual retry
// action behind the UI's refresh button. It runs the same refresh cycle
// as the background loop, so devices that flipped to available since the
// last snapshot still get their watchers notified. A failed fetch leaves
// the previous snapshot untouched.
func (h *Handler) RefreshDevices(c *gin.Context) {
	if err := h.refresher.RefreshOnce(c.Request.Context()); err != nil {
		respondUpstreamError(c, err)
		return
	}

	if h.respCache != nil {
		h.respCache.Flush()
	}

	devices, _ := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"total":     len(devices),
		"available": len(directory.Available(devices)),
		"borrowed":  len(directory.Borrowed(devices)),
	})
}
