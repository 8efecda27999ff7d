package model

import "time"

// PushSubscription holds the information for a browser push subscription,
// together with the asset IDs the browser wants availability alerts for.
type PushSubscription struct {
	Endpoint  string
	P256DH    string
	Auth      string
	AssetIDs  []string
	CreatedAt time.Time
}
