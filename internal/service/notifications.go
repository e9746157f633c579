package service

import "github.com/keyfold/syncengine/models"

// NotificationKind names the engine events observers can subscribe to.
type NotificationKind string

const (
	// NoteOperationAdded fires when an operation enters the offline queue.
	NoteOperationAdded NotificationKind = "operation_added"

	// NoteOperationCompleted fires when the remote store acknowledges an
	// operation.
	NoteOperationCompleted NotificationKind = "operation_completed"

	// NoteConflictDetected fires when the detector raises or refreshes a
	// conflict.
	NoteConflictDetected NotificationKind = "conflict_detected"

	// NoteConflictResolved fires after a resolution has been written back.
	NoteConflictResolved NotificationKind = "conflict_resolved"

	// NoteRemoteApplied fires when a non-conflicting remote change has
	// been applied to local state.
	NoteRemoteApplied NotificationKind = "remote_applied"

	// NoteDeadLetter fires when an operation is parked permanently.
	NoteDeadLetter NotificationKind = "operation_dead_lettered"
)

// Notification is the typed payload delivered to subscribed handlers. Only
// the fields relevant to the Kind are populated.
type Notification struct {
	Kind      NotificationKind
	Event     *models.SyncEvent
	Operation *models.QueuedOperation
	Conflict  *models.SyncConflict
	Change    *models.RemoteChange
}

// NotificationHandler consumes engine notifications. Handlers run
// synchronously in registration order; a slow handler delays later handlers
// but never the sync pipeline's durable state transitions.
type NotificationHandler func(n Notification)
