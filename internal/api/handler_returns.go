package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/batch"
)

type returnRequest struct {
	AssetIDs []string `json:"assetIds" binding:"required,min=1"`
}

// PostReturns handles POST /api/returns: the return submission. Each
// selected device becomes one return transaction, submitted in order.
// Like checkouts, the batch runs to completion and the response carries
// the per-item results.
func (h *Handler) PostReturns(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	results := batch.Submit(ctx, req.AssetIDs,
		func(assetID string) string { return assetID },
		func(ctx context.Context, assetID string) error {
			return h.client.Return(ctx, assetID)
		},
		func(completed, total int, currentID string) {
			if currentID != "" {
				log.Printf("Return batch: submitting %s (%d/%d done)", currentID, completed, total)
			}
		})

	report := batch.Summarize(results)
	log.Printf("Return batch finished: %s (%d ok, %d failed)", report.Outcome, report.Succeeded, report.Failed)
	c.JSON(http.StatusOK, report)
}
