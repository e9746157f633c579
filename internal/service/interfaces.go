package service

import (
	"context"
	"time"

	"github.com/keyfold/syncengine/models"
)

//go:generate mockgen -source=interfaces.go -destination=service_mock.go -package=service -self_package=github.com/keyfold/syncengine/internal/service

// PublishParams carries the caller-supplied parts of a mutation handed to
// the coordinator. OriginDeviceID is optional: when empty the coordinator
// tags the event with the session's own device id.
type PublishParams struct {
	EntityType     models.EntityType
	EntityID       string
	Kind           models.EventKind
	Payload        models.EntityPayload
	Priority       int
	OriginDeviceID string
}

// Coordinator is the single entry and exit point for sync traffic. It owns
// the subscription bus, per-device monotonic sequencing, and the decision to
// dispatch immediately or queue for later.
type Coordinator interface {
	// Publish validates and sequences a local mutation, then dispatches it
	// (online) or enqueues it (offline). Returns ErrAuthorizationRevoked
	// for events from untrusted devices and ErrConflictPending when the
	// target entity has an unresolved conflict. Transient network errors
	// are handled by queueing and never surface to the caller.
	Publish(ctx context.Context, params PublishParams) (models.SyncEvent, error)

	// Subscribe registers a handler for the given notification kind.
	// Handlers are invoked in registration order for matching events. The
	// returned function unsubscribes the handler; calling it more than
	// once is harmless.
	Subscribe(kind NotificationKind, handler NotificationHandler) (unsubscribe func())

	// Notify publishes a notification to all matching subscribers.
	Notify(n Notification)

	// SetOnline flips the connectivity flag. The queue drain loop only
	// runs while online.
	SetOnline(online bool)

	// Online reports current connectivity.
	Online() bool

	// RecordSyncSuccess marks the time of the latest acknowledged
	// delivery. Called by the delivery pipeline on every ack.
	RecordSyncSuccess(t time.Time)

	// BindDelivery wires the queue and the online dispatch path. Must be
	// called exactly once before the first Publish; kept separate from
	// the constructor because queue and coordinator reference each other.
	BindDelivery(queue OfflineQueue, dispatchOnline func(ctx context.Context, op models.QueuedOperation) error)

	// Status assembles the derived SyncStatus snapshot.
	Status(ctx context.Context) (models.SyncStatus, error)
}

// OfflineQueue drains the durable operation queue while connectivity is
// available. The drain loop is a background job in the style of a periodic
// worker: idle until Start, stopped by Stop or context cancellation.
type OfflineQueue interface {
	// Enqueue persists op and emits NoteOperationAdded. Idempotent on
	// op.ID.
	Enqueue(ctx context.Context, op models.QueuedOperation) error

	// Withdraw removes a queued-but-not-yet-sent operation, e.g. when a
	// newer operation on the same entity supersedes it.
	Withdraw(ctx context.Context, id string) error

	// Requeue returns a dead-lettered operation to the pending queue with
	// a fresh retry budget. This is the manual-retry path for
	// ErrRetryExhausted failures.
	Requeue(ctx context.Context, operationID string) error

	// Status reports queue depth counters.
	Status(ctx context.Context) (models.QueueStatus, error)

	// Clear irreversibly discards all pending and in-flight operations.
	// Reserved for explicit user-initiated reset.
	Clear(ctx context.Context) error

	// Drain runs one drain pass immediately, outside the ticker. Used by
	// the coordinator to dispatch a freshly published operation without
	// waiting for the next interval.
	Drain(ctx context.Context)

	// Start launches the background drain goroutine. Any previously
	// running drain loop is stopped before the new one begins.
	Start(ctx context.Context)

	// Stop signals the drain goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

// DeliveryResult is reported by the bandwidth optimizer for every operation
// it shipped (or failed to ship).
type DeliveryResult struct {
	// Version is the new remote version on success.
	Version int64

	// Conflict reports an optimistic-concurrency rejection.
	Conflict bool

	// Err is the transport or per-operation error, nil on success.
	Err error
}

// DeliverySink consumes per-operation delivery outcomes. The engine
// implements it to drive queue, entity-state, and analytics transitions.
type DeliverySink interface {
	OnDelivery(ctx context.Context, op models.QueuedOperation, result DeliveryResult)
}

// BandwidthOptimizer buffers outbound operations over a short flush window
// and ships them in one compressed round-trip. It may delay or batch an
// operation but never drops one: every operation ends in a DeliverySink
// call, successful or not.
type BandwidthOptimizer interface {
	// Add buffers an operation for the next batch. Triggers an early flush
	// when the buffer reaches the configured batch ceiling.
	Add(ctx context.Context, op models.QueuedOperation)

	// Flush sends the current buffer immediately, regardless of window.
	Flush(ctx context.Context)

	// Stats returns cumulative bandwidth savings counters.
	Stats() models.BandwidthStats

	// Start launches the flush timer goroutine.
	Start(ctx context.Context)

	// Stop flushes the remaining buffer and terminates the timer.
	Stop()
}

// ConflictService detects concurrent divergence between local and remote
// changes and arbitrates resolutions.
type ConflictService interface {
	// HandleRemoteChange classifies an inbound remote change against the
	// entity's last-synced marker. A single-sided change applies directly;
	// a concurrent pair raises (or refreshes) the entity's conflict.
	HandleRemoteChange(ctx context.Context, change models.RemoteChange) error

	// Unresolved lists the current unresolved conflicts.
	Unresolved(ctx context.Context) []models.SyncConflict

	// HasUnresolved reports whether the entity currently has an unresolved
	// conflict.
	HasUnresolved(entityType models.EntityType, entityID string) bool

	// Resolve applies the chosen strategy, writes the winning payload
	// through the remote store, removes the conflict, and emits
	// NoteConflictResolved. Resolving an id that no longer exists is a
	// no-op: the call returns nil so resolution stays idempotent.
	Resolve(ctx context.Context, id string, resolution models.Resolution, custom models.EntityPayload) error
}

// DeviceRegistry tracks devices and live sessions for the user.
type DeviceRegistry interface {
	// Register upserts the device record, creating it on first session.
	Register(ctx context.Context, device models.Device) error

	// Trust marks a device trusted again.
	Trust(ctx context.Context, id string) error

	// Remove revokes a device's trust and invalidates its sessions
	// immediately. Subsequent events bearing the device id fail with
	// ErrAuthorizationRevoked.
	Remove(ctx context.Context, id string) error

	// IsTrusted reports whether the device may contribute sync events.
	// Unknown devices are not trusted.
	IsTrusted(ctx context.Context, id string) bool

	// Devices lists all known devices.
	Devices(ctx context.Context) ([]models.Device, error)

	// CreateSession opens a session for the device and issues a signed
	// session token.
	CreateSession(ctx context.Context, deviceID, userID string) (models.Session, error)

	// UpdateSessionActivity refreshes a session's liveness marker.
	UpdateSessionActivity(sessionID string)

	// PruneIdle drops sessions idle beyond the configured threshold from
	// the active set. Device records persist for future reconnection.
	PruneIdle(now time.Time) int

	// ActiveSessions returns the live session count.
	ActiveSessions() int
}

// AnalyticsService passively observes the other components and produces
// health and performance reporting.
type AnalyticsService interface {
	// RecordOperation counts one published operation.
	RecordOperation()

	// RecordConflictRaised / RecordConflictResolved count conflict
	// lifecycle transitions.
	RecordConflictRaised()
	RecordConflictResolved()

	// RecordDeadLetter counts a permanently failed operation.
	RecordDeadLetter()

	// RecordLatency records one publish-to-acknowledge duration sample.
	RecordLatency(d time.Duration)

	// SampleQueueDepth records a queue-depth observation for the backlog
	// trend.
	SampleQueueDepth(depth int)

	// Report builds a point-in-time snapshot.
	Report() models.AnalyticsReport

	// Export serializes the current report. Supported formats: "json",
	// "csv".
	Export(format string) ([]byte, error)
}
