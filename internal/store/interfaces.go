package store

import (
	"context"
	"time"

	"github.com/keyfold/syncengine/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// QueueRepository is the durable store of pending outbound operations and
// the dead-letter log. Operations are owned exclusively by the offline
// queue: only queue-processing logic mutates them.
type QueueRepository interface {
	// Enqueue persists op. Idempotent on op.ID: enqueueing an existing id
	// refreshes the stored payload and priority instead of duplicating the
	// operation.
	Enqueue(ctx context.Context, op models.QueuedOperation) error

	// Ready returns up to limit pending operations whose next_retry_at has
	// passed, ordered by priority (descending) then enqueue time. An
	// operation is only eligible when no earlier pending or in-flight
	// operation exists for the same entity, so per-entity FIFO order is
	// preserved regardless of priority.
	Ready(ctx context.Context, now time.Time, limit int) ([]models.QueuedOperation, error)

	// MarkInFlight transitions the given operations to InFlight.
	MarkInFlight(ctx context.Context, ids ...string) error

	// MarkDone removes a delivered operation from the queue.
	MarkDone(ctx context.Context, id string) error

	// Reschedule returns an operation to Pending with the given attempt
	// count and retry time.
	Reschedule(ctx context.Context, id string, attempts int, nextRetryAt time.Time) error

	// Withdraw removes a Pending operation by id. Returns
	// ErrOperationInFlight when the operation has already been dispatched
	// and ErrOperationNotFound when it does not exist.
	Withdraw(ctx context.Context, id string) error

	// DeadLetter atomically moves an operation to the dead-letter log with
	// the given reason. The operation is never silently dropped.
	DeadLetter(ctx context.Context, op models.QueuedOperation, reason string) error

	// DeadLetters lists all parked operations for manual inspection.
	DeadLetters(ctx context.Context) ([]models.DeadLetter, error)

	// Requeue moves a dead-lettered operation back to the pending queue
	// with a fresh retry budget.
	Requeue(ctx context.Context, operationID string) error

	// Status reports current queue depth counters.
	Status(ctx context.Context) (models.QueueStatus, error)

	// Clear removes every pending and in-flight operation. Destructive and
	// irreversible; reserved for explicit user-initiated reset.
	Clear(ctx context.Context) error
}

// DeviceRepository persists known devices and their per-device sequence
// counters across process restarts.
type DeviceRepository interface {
	// Save upserts a device record.
	Save(ctx context.Context, device models.Device) error

	// Get returns the device by id, or ErrDeviceNotFound.
	Get(ctx context.Context, id string) (models.Device, error)

	// List returns all known devices.
	List(ctx context.Context) ([]models.Device, error)

	// SetTrusted flips the trust flag of a device.
	SetTrusted(ctx context.Context, id string, trusted bool) error

	// Touch updates the device's last-seen timestamp.
	Touch(ctx context.Context, id string, seenAt time.Time) error

	// NextSequence atomically increments and returns the device's event
	// sequence counter. The counter never decreases, even across restarts.
	NextSequence(ctx context.Context, id string) (int64, error)
}

// EntityStateRepository tracks the per-entity last-known-synced marker the
// conflict detector compares local and remote timestamps against.
type EntityStateRepository interface {
	// Get returns the sync marker for the entity, or
	// ErrEntityStateNotFound when the entity has never been tracked.
	Get(ctx context.Context, entityType models.EntityType, entityID string) (models.EntityState, error)

	// Upsert stores the entity's sync marker.
	Upsert(ctx context.Context, state models.EntityState) error

	// All returns every tracked entity state.
	All(ctx context.Context) ([]models.EntityState, error)

	// Delete removes the entity's sync marker.
	Delete(ctx context.Context, entityType models.EntityType, entityID string) error
}
