package models

import "time"

// ConflictStatus is the lifecycle state of a sync conflict.
type ConflictStatus string

const (
	ConflictUnresolved ConflictStatus = "unresolved"
	ConflictResolved   ConflictStatus = "resolved"
)

// Resolution selects the strategy applied when resolving a conflict.
// Resolving always requires an explicit caller action: conflicting user data
// is never auto-resolved.
type Resolution string

const (
	// ResolutionLocal discards the remote version and re-publishes the local
	// payload as an authoritative update.
	ResolutionLocal Resolution = "local"

	// ResolutionRemote discards the local version and applies the remote
	// payload locally.
	ResolutionRemote Resolution = "remote"

	// ResolutionMerge combines both versions with the per-entity-type
	// deterministic merge policy.
	ResolutionMerge Resolution = "merge"

	// ResolutionCustom applies a caller-supplied payload verbatim.
	ResolutionCustom Resolution = "custom"
)

// SyncConflict records two divergent versions of the same entity, neither
// derived from the other. At most one unresolved conflict exists per entity:
// a second divergence updates LocalData/RemoteData on the existing record so
// they always reflect the last divergent pair observed.
type SyncConflict struct {
	// ID identifies the conflict record.
	ID string `json:"id"`

	// EntityType selects the merge policy used by ResolutionMerge.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the contested entity.
	EntityID string `json:"entity_id"`

	// LocalData is the unacknowledged local version.
	LocalData EntityPayload `json:"-"`

	// RemoteData is the concurrent remote version.
	RemoteData EntityPayload `json:"-"`

	// LocalTimestamp is when the local version was produced.
	LocalTimestamp time.Time `json:"local_timestamp"`

	// RemoteTimestamp is the server timestamp of the remote version.
	RemoteTimestamp time.Time `json:"remote_timestamp"`

	// Status is Unresolved until an explicit resolution arrives. There is
	// no timeout: an unresolved conflict persists indefinitely.
	Status ConflictStatus `json:"status"`

	// DetectedAt is when the divergence was first observed.
	DetectedAt time.Time `json:"detected_at"`
}
