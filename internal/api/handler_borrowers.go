package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/directory"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
)

// GetBorrowers handles GET /api/borrowers?q=. The query is matched as a
// case-insensitive substring against borrower names and emails; an empty
// query lists every distinct borrower.
func (h *Handler) GetBorrowers(c *gin.Context) {
	devices, fetchedAt := h.store.Snapshot()
	if fetchedAt.IsZero() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "device directory has not been loaded yet"})
		return
	}

	borrowers := directory.MatchBorrowers(directory.Borrowed(devices), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"borrowers": borrowers})
}

// GetBorrowerDevices handles GET /api/borrowers/devices?name=&email=,
// listing the devices currently held by one exact borrower.
func (h *Handler) GetBorrowerDevices(c *gin.Context) {
	name := c.Query("name")
	email := c.Query("email")
	if name == "" || email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}

	devices, fetchedAt := h.store.Snapshot()
	if fetchedAt.IsZero() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "device directory has not been loaded yet"})
		return
	}

	held := directory.DevicesForBorrower(devices, name, email)
	if held == nil {
		held = []model.Device{}
	}
	c.JSON(http.StatusOK, gin.H{"devices": held})
}
