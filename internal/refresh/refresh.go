// Package refresh keeps the in-memory device snapshot up to date by
// periodically re-fetching the directory from the upstream backend.
package refresh

import (
	"context"
	"log"
	"time"

	"github.com/coozgan/acad-sub-staff-loaner-form/config"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/notification"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/store"
)

// DirectoryClient fetches the full device list from the upstream backend.
type DirectoryClient interface {
	FetchDevices(ctx context.Context) ([]model.Device, error)
}

// Service orchestrates periodic directory refreshes and dispatches
// availability notifications for devices that were returned since the
// previous snapshot.
type Service struct {
	cfg        *config.Config
	client     DirectoryClient
	store      store.Store
	workerPool *notification.WorkerPool
}

// NewService creates a refresher. workerPool may be nil when push
// notifications are disabled.
func NewService(cfg *config.Config, client DirectoryClient, s store.Store, workerPool *notification.WorkerPool) *Service {
	return &Service{
		cfg:        cfg,
		client:     client,
		store:      s,
		workerPool: workerPool,
	}
}

// Run starts the refresh loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Refresh.Enabled {
		log.Println("Background refresh is disabled. Not starting.")
		return
	}
	log.Println("Starting directory refresher...")

	if s.workerPool != nil {
		s.workerPool.Start(ctx)
	}

	if err := s.RefreshOnce(ctx); err != nil {
		log.Printf("Initial directory refresh failed: %v", err)
	}

	timer := time.NewTimer(s.cfg.Refresh.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Directory refresher shutting down.")
			return
		case <-timer.C:
			if err := s.RefreshOnce(ctx); err != nil {
				log.Printf("Directory refresh failed: %v", err)
			}
			timer.Reset(s.cfg.Refresh.Interval)
		}
	}
}

// RefreshOnce fetches a fresh directory snapshot and swaps it in. On
// fetch failure the previous snapshot is kept untouched; a failed refresh
// is terminal for that cycle and never retried automatically.
func (s *Service) RefreshOnce(ctx context.Context) error {
	devices, err := s.client.FetchDevices(ctx)
	if err != nil {
		return err
	}

	previous, _ := s.store.Snapshot()
	released := releasedAssets(previous, devices)

	s.store.ReplaceDevices(devices, time.Now().UTC())

	if s.workerPool != nil && len(released) > 0 {
		log.Printf("Dispatching availability notifications for %d devices", len(released))
		for _, assetID := range released {
			s.workerPool.Dispatch(assetID)
		}
	}

	return nil
}

// releasedAssets returns the IDs of devices that were borrowed in the
// previous snapshot and are available in the new one.
func releasedAssets(previous, current []model.Device) []string {
	wasBorrowed := make(map[string]bool, len(previous))
	for _, d := range previous {
		if d.IsBorrowed() {
			wasBorrowed[d.AssetID] = true
		}
	}

	var released []string
	for _, d := range current {
		if wasBorrowed[d.AssetID] && !d.IsBorrowed() {
			released = append(released, d.AssetID)
		}
	}
	return released
}
