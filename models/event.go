package models

import "time"

// EntityType identifies which kind of vault entity a sync event refers to.
// The value selects the payload variant carried by the event and the merge
// policy applied when two divergent versions of the entity must be combined.
type EntityType string

const (
	// EntityAccount is a single credential entry in the vault.
	EntityAccount EntityType = "account"

	// EntityFolder is a user-defined grouping of accounts.
	EntityFolder EntityType = "folder"

	// EntityTag is a free-form label attached to accounts.
	EntityTag EntityType = "tag"
)

// EventKind describes the mutation a sync event carries.
type EventKind string

const (
	EventCreate EventKind = "create"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// SyncEvent is the unit of sync traffic produced by the coordinator on every
// local mutation. Events are immutable once created: they are either
// dispatched immediately or handed to the offline queue, never both.
type SyncEvent struct {
	// ID is the globally unique identifier of the event itself.
	ID string `json:"id"`

	// EntityType selects the payload variant and the merge policy.
	EntityType EntityType `json:"entity_type"`

	// EntityID identifies the logical entity the mutation applies to.
	EntityID string `json:"entity_id"`

	// Kind is the mutation carried by the event.
	Kind EventKind `json:"kind"`

	// Payload is the strongly-typed entity payload. Nil for delete events.
	Payload EntityPayload `json:"-"`

	// Priority orders delivery across unrelated entities. Operations with
	// priority above DefaultPriority may jump ahead of the backlog, but
	// never reorder relative to other operations on the same entity.
	Priority int `json:"priority"`

	// OriginDeviceID is the device that produced the mutation. Events from
	// untrusted devices are rejected at the coordinator boundary.
	OriginDeviceID string `json:"origin_device_id"`

	// Sequence is monotonic per device and persisted alongside the device
	// record so it never decreases, even across process restarts.
	Sequence int64 `json:"sequence"`

	// Timestamp is wall-clock time. Combined with Sequence it gives a
	// per-device tiebreaker so two events never collide.
	Timestamp time.Time `json:"timestamp"`
}

// DefaultPriority is assigned to events published without an explicit
// priority.
const DefaultPriority = 1
