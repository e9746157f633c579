package config

import (
	"time"
)

// Config is the top-level configuration container for a single sync-engine
// session. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, an optional JSON
// file, and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type Config struct {
	// Identity holds the stable user and device identifiers supplied by the
	// identity provider.
	Identity Identity `envPrefix:"IDENTITY_"`

	// Storage holds the local durable storage settings (queue, device
	// registry, entity state).
	Storage Storage `envPrefix:"STORAGE_"`

	// Remote holds the remote document store endpoints and timeouts.
	Remote Remote `envPrefix:"REMOTE_"`

	// Queue holds the offline queue drain and retry tunables.
	Queue Queue `envPrefix:"QUEUE_"`

	// Bandwidth holds the outbound batching and compression tunables.
	Bandwidth Bandwidth `envPrefix:"BANDWIDTH_"`

	// Sessions holds device session lifecycle settings.
	Sessions Sessions `envPrefix:"SESSIONS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the SYNC_CONFIG environment variable or the -c flag.
	JSONFilePath string `env:"SYNC_CONFIG"`
}

// Identity holds the stable identifiers for the authenticated user and this
// install, supplied by the external identity/session provider.
type Identity struct {
	// UserID is the stable identifier of the authenticated user.
	// Env: IDENTITY_USER_ID
	UserID string `env:"USER_ID"`

	// DeviceID is the stable per-install device identifier.
	// Env: IDENTITY_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// DeviceName is the user-visible label of this device.
	// Env: IDENTITY_DEVICE_NAME
	DeviceName string `env:"DEVICE_NAME"`

	// Platform describes the device OS or form factor (e.g. "linux").
	// Env: IDENTITY_PLATFORM
	Platform string `env:"PLATFORM"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds the local SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database that persists
// the operation queue, dead letters, entity state, and the device registry.
type DB struct {
	// DSN is the SQLite file path (e.g. "sync.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Remote holds endpoints and timeouts for the remote document store.
type Remote struct {
	// BaseURL is the HTTP base URL of the remote document store.
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// FeedURL is the websocket URL of the change subscription feed.
	// Env: REMOTE_FEED_URL
	FeedURL string `env:"FEED_URL"`

	// RequestTimeout is the maximum duration of a single outbound request.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Queue holds the offline queue drain and retry tunables. The backoff curve
// and retry ceiling are deliberately configuration rather than constants.
type Queue struct {
	// DrainInterval is how often the drain loop looks for ready operations
	// while connectivity is available.
	// Env: QUEUE_DRAIN_INTERVAL
	DrainInterval time.Duration `env:"DRAIN_INTERVAL"`

	// BackoffBase is the delay applied after the first failed delivery
	// attempt; each subsequent failure doubles it.
	// Env: QUEUE_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`

	// BackoffCeiling caps the exponential backoff delay.
	// Env: QUEUE_BACKOFF_CEILING
	BackoffCeiling time.Duration `env:"BACKOFF_CEILING"`

	// MaxAttempts is the retry budget before an operation is dead-lettered.
	// Env: QUEUE_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`
}

// Bandwidth holds the outbound batching and compression tunables.
type Bandwidth struct {
	// FlushWindow is how long outbound operations are buffered before a
	// batch is sent, absent an earlier size-triggered flush.
	// Env: BANDWIDTH_FLUSH_WINDOW
	FlushWindow time.Duration `env:"FLUSH_WINDOW"`

	// MaxBatchSize flushes the buffer early once this many operations are
	// waiting.
	// Env: BANDWIDTH_MAX_BATCH_SIZE
	MaxBatchSize int `env:"MAX_BATCH_SIZE"`

	// CompressThreshold is the serialized batch size in bytes above which
	// the batch body is snappy-compressed.
	// Env: BANDWIDTH_COMPRESS_THRESHOLD
	CompressThreshold int `env:"COMPRESS_THRESHOLD"`
}

// Sessions holds device session lifecycle settings.
type Sessions struct {
	// IdleTimeout drops a session from the active set after this much
	// inactivity. The device record itself persists.
	// Env: SESSIONS_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`

	// TokenSignKey signs session JWT tokens.
	// Env: SESSIONS_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenDuration is the validity window of an issued session token.
	// Env: SESSIONS_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// GetConfig loads, merges, and validates the engine configuration from all
// available sources in the following priority order (earlier sources win for
// non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults for the tunables
//
// Returns a fully populated *Config or an error if any source fails to load
// or the final config fails validation.
func GetConfig() (*Config, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// defaults returns the conservative built-in values for every tunable. They
// are merged last, so any explicitly configured value wins.
func defaults() *Config {
	return &Config{
		Remote: Remote{
			RequestTimeout: 15 * time.Second,
		},
		Queue: Queue{
			DrainInterval:  2 * time.Second,
			BackoffBase:    2 * time.Second,
			BackoffCeiling: 5 * time.Minute,
			MaxAttempts:    8,
		},
		Bandwidth: Bandwidth{
			FlushWindow:       750 * time.Millisecond,
			MaxBatchSize:      25,
			CompressThreshold: 1024,
		},
		Sessions: Sessions{
			IdleTimeout:   30 * time.Minute,
			TokenDuration: 12 * time.Hour,
		},
	}
}
