package models

import "time"

// OperationStatus is the lifecycle state of a queued operation.
type OperationStatus string

const (
	// OperationPending means the operation is waiting for delivery.
	OperationPending OperationStatus = "pending"

	// OperationInFlight means the operation has been handed to the network
	// layer. In-flight operations cannot be withdrawn.
	OperationInFlight OperationStatus = "in_flight"

	// OperationFailed means the operation exhausted its retry budget or hit
	// a permanent error and was moved to the dead-letter log.
	OperationFailed OperationStatus = "failed"

	// OperationDone means the remote store acknowledged the operation.
	OperationDone OperationStatus = "done"
)

// QueuedOperation is a durably persisted outbound mutation that could not be
// delivered immediately. Owned exclusively by the offline queue; only
// queue-processing logic mutates it.
type QueuedOperation struct {
	// ID is the operation identifier. Enqueueing the same ID again updates
	// the stored payload instead of duplicating the operation.
	ID string `json:"id"`

	// EntityType selects the payload variant.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the logical entity the operation mutates. Operations on
	// the same entity are always delivered in enqueue order.
	EntityID string `json:"entity_id"`

	// Kind is the mutation to apply remotely.
	Kind EventKind `json:"kind"`

	// CollectionPath is the remote document collection the operation
	// targets, e.g. "users/{uid}/accounts".
	CollectionPath string `json:"collection_path"`

	// Payload is the serialized entity payload. Nil for deletes.
	Payload []byte `json:"payload,omitempty"`

	// Priority mirrors the originating event's priority.
	Priority int `json:"priority"`

	// Attempts counts delivery attempts so far.
	Attempts int `json:"attempts"`

	// NextRetryAt is the earliest time the drain loop may retry the
	// operation. Zero means ready immediately.
	NextRetryAt time.Time `json:"next_retry_at"`

	// Status is the current lifecycle state.
	Status OperationStatus `json:"status"`

	// EnqueuedAt orders operations on the same entity.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// DeadLetter records an operation that permanently failed delivery. Dead
// letters are parked for manual inspection and can be re-queued explicitly;
// they are never retried automatically and never silently dropped.
type DeadLetter struct {
	OperationID string    `json:"operation_id"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	Kind        EventKind `json:"kind"`
	Payload     []byte    `json:"payload,omitempty"`
	Attempts    int       `json:"attempts"`
	Reason      string    `json:"reason"`
	FailedAt    time.Time `json:"failed_at"`
}
