package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrOperationNotFound is returned when a queue operation targeted by
	// id does not exist.
	ErrOperationNotFound = errors.New("queued operation was not found")

	// ErrOperationInFlight is returned when a withdraw targets an operation
	// that has already been handed to the network layer. In-flight
	// operations run to completion or failure and cannot be withdrawn.
	ErrOperationInFlight = errors.New("queued operation is in flight")

	// ErrDeviceNotFound is returned when a query or update targets a device
	// that has never been registered.
	ErrDeviceNotFound = errors.New("device was not found")

	// ErrEntityStateNotFound is returned when no sync marker exists yet for
	// the requested entity.
	ErrEntityStateNotFound = errors.New("entity state was not found")

	// ErrDeadLetterNotFound is returned when a requeue targets a
	// dead-letter record that does not exist.
	ErrDeadLetterNotFound = errors.New("dead letter was not found")
)
