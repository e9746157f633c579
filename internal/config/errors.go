package config

import "errors"

// Validation errors returned by [Config.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidIdentityConfigs indicates missing identity settings
	// (for example, empty user or device ID).
	ErrInvalidIdentityConfigs = errors.New("invalid identity configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidRemoteConfigs indicates invalid remote store settings
	// (for example, missing base URL or zero request timeout).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidQueueConfigs indicates invalid queue retry settings
	// (for example, a zero retry budget or inverted backoff bounds).
	ErrInvalidQueueConfigs = errors.New("invalid queue configuration")
	// ErrInvalidBandwidthConfigs indicates invalid batching settings
	// (for example, a zero flush window or batch ceiling).
	ErrInvalidBandwidthConfigs = errors.New("invalid bandwidth configuration")
)
