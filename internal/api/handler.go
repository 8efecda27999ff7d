package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/store"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/upstream"
)

// LoanClient is the slice of the upstream client the handlers need.
type LoanClient interface {
	Borrow(ctx context.Context, device model.Device, name, email string) error
	Return(ctx context.Context, assetID string) error
}

// Refresher re-fetches the directory and swaps in the new snapshot. The
// manual refresh endpoint goes through the same path as the background
// loop so that borrowed-to-available transitions are never observed
// without their watchers being notified.
type Refresher interface {
	RefreshOnce(ctx context.Context) error
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	client    LoanClient
	refresher Refresher
	webpush   *webpush.Options
	respCache *cache.Cache
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, client LoanClient, refresher Refresher, webpushOptions *webpush.Options, respCache *cache.Cache) *Handler {
	return &Handler{
		store:     s,
		client:    client,
		refresher: refresher,
		webpush:   webpushOptions,
		respCache: respCache,
	}
}

// respondUpstreamError maps the upstream error taxonomy onto the response.
// The kind field lets the front end pick between "check your connection"
// and "the server rejected the request".
func respondUpstreamError(c *gin.Context, err error) {
	var netErr *upstream.NetworkError
	var httpErr *upstream.HTTPError
	switch {
	case errors.As(err, &netErr):
		c.JSON(http.StatusBadGateway, gin.H{"kind": "network", "error": netErr.Error()})
	case errors.As(err, &httpErr):
		c.JSON(http.StatusBadGateway, gin.H{"kind": "http", "upstreamStatus": httpErr.StatusCode, "error": httpErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
