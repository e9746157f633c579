package models

import "time"

// SyncState is the coarse state of the sync engine.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncSyncing SyncState = "syncing"
	SyncError   SyncState = "error"
)

// SyncStatus is a derived snapshot of engine health. It is computed on
// demand and never persisted as its own entity.
type SyncStatus struct {
	State               SyncState `json:"state"`
	Online              bool      `json:"online"`
	QueueDepth          int       `json:"queue_depth"`
	UnresolvedConflicts int       `json:"unresolved_conflicts"`
	LastSyncAt          time.Time `json:"last_sync_at"`
}

// QueueStatus is a point-in-time summary of the offline operation queue.
type QueueStatus struct {
	PendingCount  int `json:"pending_count"`
	InFlightCount int `json:"in_flight_count"`
	DeadLetters   int `json:"dead_letters"`
}

// EntityState is the locally tracked sync marker for a single entity. The
// conflict detector compares local and remote timestamps against
// LastSyncedAt to decide whether two changes are concurrent.
type EntityState struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`

	// Version is the last remote version acknowledged for the entity, used
	// for conditional writes against the remote store.
	Version int64 `json:"version"`

	// Payload is the serialized last known local payload.
	Payload []byte `json:"payload,omitempty"`

	// LocalUpdatedAt is the timestamp of the newest unacknowledged local
	// change. Zero when the entity is clean.
	LocalUpdatedAt time.Time `json:"local_updated_at"`

	// LastSyncedAt is the last common synchronized point with the remote
	// store. Both sides changing after this marker means a conflict.
	LastSyncedAt time.Time `json:"last_synced_at"`

	// Deleted marks a locally soft-deleted entity.
	Deleted bool `json:"deleted"`
}
