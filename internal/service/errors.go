package service

import "errors"

// Sentinel errors shared across the sync services. Callers match them with
// [errors.Is].
var (
	// ErrAuthorizationRevoked rejects an event whose origin device is no
	// longer trusted. The event is dropped and logged, never retried.
	ErrAuthorizationRevoked = errors.New("device authorization revoked")

	// ErrConflictPending rejects a direct write to an entity that has an
	// unresolved conflict. The write becomes possible again once the
	// conflict is resolved.
	ErrConflictPending = errors.New("entity has an unresolved conflict")

	// ErrPayloadCorrupt marks malformed data. The operation is moved to
	// the dead-letter log after zero retries.
	ErrPayloadCorrupt = errors.New("payload corrupt")

	// ErrRetryExhausted marks an operation that failed after the maximum
	// attempt count. It is dead-lettered and recoverable by an explicit
	// manual requeue.
	ErrRetryExhausted = errors.New("operation retry budget exhausted")

	// ErrUnknownResolution is returned for a resolution strategy the
	// resolver does not implement.
	ErrUnknownResolution = errors.New("unknown resolution strategy")

	// ErrEngineStopped is returned by operations invoked after the engine
	// session has been shut down.
	ErrEngineStopped = errors.New("sync engine is stopped")
)
