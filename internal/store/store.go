// Package store holds the service's in-memory state: the last successful
// device snapshot and the push-subscription registry. There is no
// persistence; the snapshot is rebuilt from the upstream on startup and
// subscriptions are re-registered by browsers.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
)

// Store defines the state operations used by the handlers, the refresher
// and the notification workers.
type Store interface {
	// ReplaceDevices swaps in a fresh snapshot wholesale. The previous
	// snapshot is discarded, never merged.
	ReplaceDevices(devices []model.Device, fetchedAt time.Time)
	// Snapshot returns the current device list and when it was fetched.
	// The returned slice must not be mutated by callers.
	Snapshot() ([]model.Device, time.Time)

	UpsertSubscription(sub model.PushSubscription)
	Subscription(endpoint string) (model.PushSubscription, bool)
	DeleteSubscription(endpoint string)
	// SubscribersFor returns every subscription watching the given asset.
	SubscribersFor(assetID string) []model.PushSubscription
}

type memoryStore struct {
	mu        sync.RWMutex
	devices   []model.Device
	fetchedAt time.Time
	subs      map[string]model.PushSubscription
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		subs: make(map[string]model.PushSubscription),
	}
}

func (s *memoryStore) ReplaceDevices(devices []model.Device, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = devices
	s.fetchedAt = fetchedAt
}

func (s *memoryStore) Snapshot() ([]model.Device, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices, s.fetchedAt
}

func (s *memoryStore) UpsertSubscription(sub model.PushSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.subs[sub.Endpoint]; ok {
		sub.CreatedAt = existing.CreatedAt
	} else if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	s.subs[sub.Endpoint] = sub
}

func (s *memoryStore) Subscription(endpoint string) (model.PushSubscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[endpoint]
	return sub, ok
}

func (s *memoryStore) DeleteSubscription(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, endpoint)
}

func (s *memoryStore) SubscribersFor(assetID string) []model.PushSubscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.PushSubscription
	for _, sub := range s.subs {
		for _, id := range sub.AssetIDs {
			if strings.EqualFold(id, assetID) {
				out = append(out, sub)
				break
			}
		}
	}
	return out
}
