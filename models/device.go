package models

import "time"

// Device is a client install participating in sync for a user. Created on
// first session and persisted across restarts; trust is revoked only by
// explicit user action. Once untrusted, events bearing the device's ID are
// rejected at the coordinator boundary.
type Device struct {
	// ID is the stable per-install device identifier.
	ID string `json:"id"`

	// Name is the user-visible device label.
	Name string `json:"name"`

	// Platform describes the device OS or form factor.
	Platform string `json:"platform"`

	// Trusted gates the device's ability to contribute sync events.
	Trusted bool `json:"trusted"`

	// LastSeen is the last observed activity from the device.
	LastSeen time.Time `json:"last_seen"`

	// NextSequence is the next per-device event sequence number. Persisted
	// with the device so the counter never decreases across restarts.
	NextSequence int64 `json:"next_sequence"`
}

// Session is a live authenticated presence of a device. Sessions idle beyond
// the configured threshold are dropped from the active set; the device record
// itself persists for future reconnection.
type Session struct {
	ID           string    `json:"id"`
	DeviceID     string    `json:"device_id"`
	UserID       string    `json:"user_id"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}
