package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/batch"
)

type checkoutRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	AssetIDs []string `json:"assetIds" binding:"required,min=1"`
}

// PostCheckout handles POST /api/checkouts: the cart submission. Each
// asset in the cart becomes one borrow transaction against the upstream,
// submitted strictly in cart order. Individual failures are reported in
// the result list; the response is always 200 with the batch report, and
// the UI re-fetches the directory to see the effect.
func (h *Handler) PostCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	devices, fetchedAt := h.store.Snapshot()
	if fetchedAt.IsZero() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "device directory has not been loaded yet"})
		return
	}

	byID := make(map[string]int, len(devices))
	for i, d := range devices {
		byID[strings.ToLower(d.AssetID)] = i
	}

	ctx := c.Request.Context()
	results := batch.Submit(ctx, req.AssetIDs,
		func(assetID string) string { return assetID },
		func(ctx context.Context, assetID string) error {
			idx, ok := byID[strings.ToLower(assetID)]
			if !ok {
				return fmt.Errorf("device %s is not in the directory", assetID)
			}
			return h.client.Borrow(ctx, devices[idx], req.Name, req.Email)
		},
		func(completed, total int, currentID string) {
			if currentID != "" {
				log.Printf("Checkout for %s: submitting %s (%d/%d done)", req.Email, currentID, completed, total)
			}
		})

	report := batch.Summarize(results)
	log.Printf("Checkout for %s finished: %s (%d ok, %d failed)", req.Email, report.Outcome, report.Succeeded, report.Failed)
	c.JSON(http.StatusOK, report)
}
